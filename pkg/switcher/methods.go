package switcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/session"
	"github.com/arthur-debert/pyswitch/pkg/types"
)

// Method names
const (
	MethodPath    = "path"
	MethodSymlink = "symlink"
	MethodEnv     = "env"
)

// PathMethod prepends the interpreter directory to PATH.
type PathMethod struct {
	Locator *discovery.Locator
	Target  Target
	// Fallback also searches the candidate paths and exports the
	// version variables
	Fallback bool
}

// Name implements Method
func (m *PathMethod) Name() string { return MethodPath }

// Switch implements Method
func (m *PathMethod) Switch(ctx context.Context, s *session.Session) (Outcome, error) {
	out := Outcome{Method: m.Name()}

	var interp discovery.Interpreter
	if m.Fallback {
		found, err := m.Locator.Find(ctx, m.Target.Binary)
		if err != nil {
			return out, err
		}
		interp = found
	} else {
		path, err := m.Locator.Which(ctx, m.Target.Binary)
		if err != nil {
			return out, err
		}
		interp = discovery.Interpreter{Command: m.Target.Binary, Path: path, Source: discovery.SourceWhich}
	}
	out.Interpreter = interp
	out.step("found %s at %s", interp.Command, interp.Path)

	s.Env.PrependPath(interp.Dir())
	out.step("prepended %s to PATH", interp.Dir())

	s.SetExecutable(interp.Path)
	out.step("set executable to %s", interp.Path)

	if m.Fallback {
		setVersionVars(s, m.Target, &out)
	}
	return out, nil
}

// SymlinkMethod links <LocalBin>/python3 to the interpreter.
type SymlinkMethod struct {
	Locator *discovery.Locator
	FS      types.FS
	Target  Target
}

// Name implements Method
func (m *SymlinkMethod) Name() string { return MethodSymlink }

// Switch implements Method
func (m *SymlinkMethod) Switch(ctx context.Context, s *session.Session) (Outcome, error) {
	out := Outcome{Method: m.Name()}

	// system-wide alternatives need root, only report availability
	if _, err := m.Locator.Which(ctx, "update-alternatives"); err == nil {
		out.step("update-alternatives is available (requires sudo, not used)")
	} else {
		out.step("update-alternatives not available")
	}

	targetPath, err := m.Locator.Which(ctx, m.Target.Binary)
	if err != nil {
		return out, err
	}
	currentPath, err := m.Locator.Which(ctx, discovery.DefaultCommand)
	if err != nil {
		return out, err
	}
	out.step("current python3: %s", currentPath)
	out.step("target %s: %s", m.Target.Binary, targetPath)

	if m.Target.LocalBin == "" {
		return out, errors.New(errors.ErrInvalidInput, "no local bin directory configured")
	}
	if err := m.FS.MkdirAll(m.Target.LocalBin, 0755); err != nil {
		return out, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", m.Target.LocalBin)
	}

	link := filepath.Join(m.Target.LocalBin, discovery.DefaultCommand)
	if _, err := m.FS.Lstat(link); err == nil {
		if err := m.FS.Remove(link); err != nil {
			return out, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to remove existing %s", link)
		}
	} else if !os.IsNotExist(err) {
		return out, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", link)
	}

	if err := m.FS.Symlink(targetPath, link); err != nil {
		return out, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s -> %s", link, targetPath)
	}
	out.step("created symlink %s -> %s", link, targetPath)

	s.Env.PrependPath(m.Target.LocalBin)
	out.step("prepended %s to PATH", m.Target.LocalBin)

	s.SetExecutable(link)
	out.step("set executable to %s", link)

	out.Interpreter = discovery.Interpreter{Command: discovery.DefaultCommand, Path: link, Source: discovery.SourceWhich}
	return out, nil
}

// EnvMethod exports the version variables and prepends the interpreter
// directory.
type EnvMethod struct {
	Locator *discovery.Locator
	Target  Target
}

// Name implements Method
func (m *EnvMethod) Name() string { return MethodEnv }

// Switch implements Method
func (m *EnvMethod) Switch(ctx context.Context, s *session.Session) (Outcome, error) {
	out := Outcome{Method: m.Name()}

	path, err := m.Locator.Which(ctx, m.Target.Binary)
	if err != nil {
		return out, err
	}
	interp := discovery.Interpreter{Command: m.Target.Binary, Path: path, Source: discovery.SourceWhich}
	out.Interpreter = interp

	setVersionVars(s, m.Target, &out)

	keys := make([]string, 0, len(m.Target.ExtraEnv))
	for k := range m.Target.ExtraEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Env.Set(k, m.Target.ExtraEnv[k])
		out.step("set %s=%s", k, m.Target.ExtraEnv[k])
	}

	s.Env.PrependPath(interp.Dir())
	s.SetExecutable(interp.Path)
	out.step("updated PATH and executable to %s", interp.Path)
	return out, nil
}

func setVersionVars(s *session.Session, t Target, out *Outcome) {
	s.Env.Set(EnvPyPython, t.Version)
	s.Env.Set(EnvPythonVersion, t.Version)
	out.step("set %s=%s", EnvPyPython, t.Version)
	out.step("set %s=%s", EnvPythonVersion, t.Version)
}

// MethodsByName builds the default chain, or a single method when name
// is not empty
func MethodsByName(name string, locator *discovery.Locator, fsys types.FS, target Target) ([]Method, error) {
	all := []Method{
		&PathMethod{Locator: locator, Target: target},
		&SymlinkMethod{Locator: locator, FS: fsys, Target: target},
		&EnvMethod{Locator: locator, Target: target},
	}
	if name == "" || name == "auto" {
		return all, nil
	}
	for _, m := range all {
		if m.Name() == name {
			return []Method{m}, nil
		}
	}
	return nil, errors.Newf(errors.ErrInvalidInput,
		"unknown switch method %q (want path, symlink, env or auto)", name)
}
