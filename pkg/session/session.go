// Package session holds the interpreter identity pyswitch works with.
//
// A Session replaces the idea of overwriting a running interpreter's
// executable and module search path: the identity lives here and is
// applied to every child process pyswitch starts, and exported for the
// user's shell. A running process is never re-targeted.
package session

import (
	"os"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/environ"
)

// PythonPathVar carries the inserted search path to child interpreters
const PythonPathVar = "PYTHONPATH"

// Session is the interpreter identity plus the environment it runs with
type Session struct {
	Executable string
	SysPath    []string
	Env        *environ.Env

	// inserted tracks the entries added by InsertSysPath, newest first
	inserted []string
	// pruned holds the entries removed by PruneSysPath
	pruned []string
}

// Snapshot is a point-in-time copy for before/after reporting
type Snapshot struct {
	Executable string   `json:"executable" yaml:"executable"`
	SysPath    []string `json:"sysPath,omitempty" yaml:"sysPath,omitempty"`
	Path       string   `json:"path" yaml:"path"`
	VirtualEnv string   `json:"virtualEnv,omitempty" yaml:"virtualEnv,omitempty"`
	PyPython   string   `json:"pyPython,omitempty" yaml:"pyPython,omitempty"`
}

// New creates a session over env. A nil env copies the process environment.
func New(env *environ.Env) *Session {
	if env == nil {
		env = environ.FromOS()
	}
	s := &Session{Env: env}
	if pp := env.Get(PythonPathVar); pp != "" {
		s.SysPath = environ.SplitPath(pp)
	}
	return s
}

// SetExecutable replaces the interpreter executable and returns the old one
func (s *Session) SetExecutable(path string) string {
	prev := s.Executable
	s.Executable = path
	return prev
}

// PruneSysPath removes entries containing any of the markers and returns
// the removed entries
func (s *Session) PruneSysPath(markers ...string) []string {
	var kept, removed []string
	for _, entry := range s.SysPath {
		if containsAny(entry, markers) {
			removed = append(removed, entry)
			continue
		}
		kept = append(kept, entry)
	}
	s.SysPath = kept
	s.pruned = append(s.pruned, removed...)

	var inserted []string
	for _, entry := range s.inserted {
		if !containsAny(entry, markers) {
			inserted = append(inserted, entry)
		}
	}
	s.inserted = inserted
	return removed
}

// InsertSysPath puts entry at the front of the search path. It reports
// false when the entry was already present.
func (s *Session) InsertSysPath(entry string) bool {
	for _, p := range s.SysPath {
		if p == entry {
			return false
		}
	}
	s.SysPath = append([]string{entry}, s.SysPath...)
	s.inserted = append([]string{entry}, s.inserted...)
	return true
}

// Inserted returns the entries added with InsertSysPath, newest first
func (s *Session) Inserted() []string {
	return append([]string(nil), s.inserted...)
}

// CommandEnv returns the environment for a child interpreter. Inserted
// search path entries are prepended to PYTHONPATH and pruned ones dropped.
func (s *Session) CommandEnv() []string {
	if len(s.inserted) == 0 && len(s.pruned) == 0 {
		return s.Env.Slice()
	}
	return s.ExportEnv().Slice()
}

// ExportEnv returns a copy of the environment with PYTHONPATH applied,
// suitable for rendering shell exports
func (s *Session) ExportEnv() *environ.Env {
	env := s.Env.Clone()
	if len(s.inserted) == 0 && len(s.pruned) == 0 {
		return env
	}
	if pp := s.pythonPath(env.Get(PythonPathVar)); pp != "" {
		env.Set(PythonPathVar, pp)
	} else if _, ok := env.Lookup(PythonPathVar); ok {
		env.Unset(PythonPathVar)
	}
	return env
}

func (s *Session) pythonPath(existing string) string {
	entries := append([]string(nil), s.inserted...)
	for _, e := range environ.SplitPath(existing) {
		if !contains(entries, e) && !contains(s.pruned, e) {
			entries = append(entries, e)
		}
	}
	return strings.Join(entries, string(os.PathListSeparator))
}

// Clone returns an independent copy of the session
func (s *Session) Clone() *Session {
	return &Session{
		Executable: s.Executable,
		SysPath:    append([]string(nil), s.SysPath...),
		Env:        s.Env.Clone(),
		inserted:   append([]string(nil), s.inserted...),
		pruned:     append([]string(nil), s.pruned...),
	}
}

// Snapshot captures the current identity
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Executable: s.Executable,
		SysPath:    append([]string(nil), s.SysPath...),
		Path:       s.Env.Get(environ.PathVar),
		VirtualEnv: s.Env.Get("VIRTUAL_ENV"),
		PyPython:   s.Env.Get("PY_PYTHON"),
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
