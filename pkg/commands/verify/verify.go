// Package verify checks that the target interpreter is the one in use and
// that it works: version, language features, environment and pip.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/probe"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/switcher"
	version "github.com/hashicorp/go-version"
)

// Options for the verify flow
type Options struct {
	shared.Deps
	// Interpreter to check, defaults to the session executable
	Interpreter string
	// SkipPip skips the pip dry run
	SkipPip bool
}

// Result of the verify flow. OK is true when the interpreter is at least
// the target version.
type Result struct {
	shared.Result
	Interpreter string           `json:"interpreter" yaml:"interpreter"`
	Version     string           `json:"version,omitempty" yaml:"version,omitempty"`
	Class       probe.Class      `json:"class,omitempty" yaml:"class,omitempty"`
	Features    []probe.Result   `json:"features" yaml:"features"`
	Verdict     probe.Outcome    `json:"verdict" yaml:"verdict"`
	Pip         *probe.PipResult `json:"pip,omitempty" yaml:"pip,omitempty"`
}

// Verify runs every check against the interpreter
func Verify(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.verify")
	opts.Prepare()
	d := &opts.Deps

	interp := Interpreter(d, opts.Interpreter)
	logger.Info().Str("interpreter", interp).Msg("Verifying interpreter")

	target := d.Config.Target.Version
	rep := report.New("Verifying Python " + target)
	res := &Result{Interpreter: interp}
	res.Report = rep

	v, current := VersionSection(ctx, d, rep, interp)
	if v != nil {
		res.Version = v.String()
		res.Class = probe.Classify(v, target)
	}
	res.Features = FeaturesSection(ctx, d, rep, interp)
	res.Verdict = probe.Verdict(res.Features)
	EnvironmentSection(ctx, d, rep, interp)
	if !opts.SkipPip {
		pip := PipSection(ctx, d, rep, interp)
		res.Pip = &pip
	}

	switch {
	case current && res.Verdict != probe.OutcomeFailure:
		rep.SetSummary(style.StatusOK,
			fmt.Sprintf("You have successfully switched to Python %s!", target),
			fmt.Sprintf("You can now use Python %s features and install packages.", target))
	case current:
		rep.SetSummary(style.StatusWarn,
			fmt.Sprintf("Python %s is active, but some features may not be available.", target),
			"This might be due to environment configuration.")
	default:
		rep.SetSummary(style.StatusFail,
			fmt.Sprintf("Python %s is not active.", target),
			fmt.Sprintf("Run 'source %s' to switch versions, or check that Python %s is installed.",
				d.Config.ScriptPaths().Switch, target))
	}
	res.OK = current
	return res, nil
}

// Interpreter picks the interpreter to verify: explicit, then the session
// executable, then the target binary
func Interpreter(d *shared.Deps, explicit string) string {
	switch {
	case explicit != "":
		return explicit
	case d.Session.Executable != "":
		return d.Session.Executable
	default:
		return d.Config.Target.Binary()
	}
}

// VersionSection reports the interpreter version and whether it is at
// least the target
func VersionSection(ctx context.Context, d *shared.Deps, rep *report.Report, interp string) (*version.Version, bool) {
	target := d.Config.Target.Version
	sec := rep.Section("Version")
	sec.Info("Python executable", interp)

	v, err := d.Prober().VersionInfo(ctx, interp)
	if err != nil {
		sec.Fail("Python version", err.Error())
		return nil, false
	}
	sec.Info("Python version", v.String())

	switch probe.Classify(v, target) {
	case probe.ClassCurrent:
		sec.OK(fmt.Sprintf("Currently using Python %s or higher", target), "")
		return v, true
	case probe.ClassPartial:
		sec.Warn(fmt.Sprintf("Using Python %s-%s (not %s)", probe.PartialSince, previousMinor(target), target), "")
	default:
		sec.Fail(fmt.Sprintf("Using Python older than %s", probe.PartialSince), "")
	}
	return v, false
}

// previousMinor turns "3.12" into "3.11"
func previousMinor(target string) string {
	v, err := version.NewVersion(target)
	if err != nil {
		return target
	}
	seg := v.Segments()
	if len(seg) < 2 || seg[1] == 0 {
		return target
	}
	return fmt.Sprintf("%d.%d", seg[0], seg[1]-1)
}

// FeaturesSection runs the configured probes
func FeaturesSection(ctx context.Context, d *shared.Deps, rep *report.Report, interp string) []probe.Result {
	sec := rep.Section("Features")
	results := d.Prober().Run(ctx, interp, d.Probes())
	for _, r := range results {
		if r.Available {
			detail := "available"
			if r.Probe.Since != "" {
				detail = fmt.Sprintf("available (Python %s+ feature)", r.Probe.Since)
			}
			sec.OK(r.Probe.Name, detail)
			continue
		}
		detail := "not available"
		if r.Probe.Since != "" {
			detail = fmt.Sprintf("not available (Python < %s)", r.Probe.Since)
		}
		sec.Fail(r.Probe.Name, detail)
	}
	return results
}

// EnvironmentSection reports PATH and the interpreter related variables
// of the session
func EnvironmentSection(ctx context.Context, d *shared.Deps, rep *report.Report, interp string) {
	cfg := d.Config
	env := d.Session.Env
	sec := rep.Section("Environment")

	path := env.Get(environ.PathVar)
	sec.Info(fmt.Sprintf("PATH (first %d chars)", cfg.Verify.PathPreview), environ.Truncate(path, cfg.Verify.PathPreview))

	entries := environ.AnalyzePath(path, d.FS)
	target := cfg.Target.Version
	if len(environ.MatchEntries(entries, target, cfg.Target.Binary())) > 0 {
		sec.OK(fmt.Sprintf("Python %s appears in PATH", target), "")
	} else {
		sec.Warn(fmt.Sprintf("Python %s not obviously in PATH", target), "")
	}
	if dups := environ.Duplicates(entries); len(dups) > 0 {
		sec.Warn("Duplicate PATH entries", joinValues(dups))
	}

	sec.Info(switcher.EnvVirtualEnv, valueOrNotSet(env.Get(switcher.EnvVirtualEnv)))
	sec.Info(switcher.EnvPyPython, valueOrNotSet(env.Get(switcher.EnvPyPython)))

	venvs := environ.MatchEntries(entries, "venv", "py"+cfg.Target.NoDot())
	if len(venvs) > 0 {
		sec.Info("Virtual environment paths in PATH", joinValues(venvs))
	} else {
		sec.Info("Virtual environment paths in PATH", "none")
	}

	inVenv, prefix, err := d.Prober().InVirtualEnv(ctx, interp)
	switch {
	case err != nil:
		sec.Warn("In virtual environment", err.Error())
	case inVenv:
		sec.Info("In virtual environment", "yes ("+prefix+")")
	default:
		sec.Info("In virtual environment", "no")
	}
}

// PipSection runs the pip dry run
func PipSection(ctx context.Context, d *shared.Deps, rep *report.Report, interp string) probe.PipResult {
	cfg := d.Config.Verify
	sec := rep.Section("Package Installation")
	pip := d.Prober().PipCheck(ctx, interp, cfg.PipPackage, cfg.PipTimeout)
	switch {
	case pip.OK:
		sec.OK("pip is working correctly", "")
	case pip.Err != "":
		sec.Fail("Error testing pip", pip.Err)
	default:
		sec.Warn("pip may have issues", pip.Stderr)
	}
	return pip
}

func joinValues(entries []environ.PathEntry) string {
	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return strings.Join(values, ", ")
}

func valueOrNotSet(v string) string {
	if v == "" {
		return "Not set"
	}
	return v
}
