// Package report holds the diagnostics every pyswitch flow produces and
// renders them for terminals, plain text, JSON and YAML.
//
// Flows build a Report section by section:
//
//	r := report.New("Verifying Python 3.12")
//	s := r.Section("Version")
//	s.OK("Python version", "3.12.1")
//	s.Fail("zoneinfo module", "not available")
//
// and the command layer picks the format with ParseFormat/DetectFormat.
package report
