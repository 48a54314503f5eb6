package switcher

import (
	"path/filepath"

	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/session"
	"github.com/arthur-debert/pyswitch/pkg/types"
)

// MethodVenv names the virtual environment switch
const MethodVenv = "venv"

// VenvTarget describes the virtual environment to switch to
type VenvTarget struct {
	Path      string
	PyVersion string
	// StripMarkers drop matching search path entries of older interpreters
	StripMarkers []string
}

// SitePackages returns <venv>/lib/python<v>/site-packages
func (v VenvTarget) SitePackages() string {
	return filepath.Join(v.Path, "lib", "python"+v.PyVersion, "site-packages")
}

// BinDir returns <venv>/bin
func (v VenvTarget) BinDir() string {
	return filepath.Join(v.Path, "bin")
}

// SwitchToVenv points the session at a virtual environment. A missing
// site-packages directory only produces a warning.
func SwitchToVenv(s *session.Session, fsys types.FS, v VenvTarget) (Outcome, error) {
	out := Outcome{Method: MethodVenv}

	info, err := fsys.Stat(v.Path)
	if err != nil || !info.IsDir() {
		e := errors.Newf(errors.ErrVenvNotFound, "virtual environment not found at %s", v.Path)
		if err != nil {
			e = errors.Wrapf(err, errors.ErrVenvNotFound, "virtual environment not found at %s", v.Path)
		}
		return out, e
	}

	bin := v.BinDir()
	s.Env.PrependPath(bin)
	s.Env.Set(EnvVirtualEnv, v.Path)
	out.step("prepended %s to PATH", bin)
	out.step("set %s=%s", EnvVirtualEnv, v.Path)

	site := v.SitePackages()
	if types.Exists(fsys, site) {
		for _, removed := range s.PruneSysPath(v.StripMarkers...) {
			out.step("removed %s from search path", removed)
		}
		if s.InsertSysPath(site) {
			out.step("added %s to search path", site)
		}
	} else {
		out.warn("site-packages path not found: %s", site)
	}

	python := filepath.Join(bin, "python")
	out.Interpreter = discovery.Interpreter{Command: "python", Path: python, Source: discovery.SourceCandidate}
	if types.Exists(fsys, python) {
		s.SetExecutable(python)
		out.step("set executable to %s", python)
	} else {
		out.warn("no interpreter at %s", python)
	}

	return out, nil
}
