package venv

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/runner"
	"github.com/arthur-debert/pyswitch/pkg/types"
	"github.com/rs/zerolog"
)

// Layout holds the well-known paths of a virtual environment
type Layout struct {
	Path         string `json:"path" yaml:"path"`
	Bin          string `json:"bin" yaml:"bin"`
	Python       string `json:"python" yaml:"python"`
	Pip          string `json:"pip" yaml:"pip"`
	SitePackages string `json:"sitePackages" yaml:"sitePackages"`
}

// NewLayout computes the layout of the environment at path
func NewLayout(path, pyVersion string) Layout {
	bin := filepath.Join(path, "bin")
	return Layout{
		Path:         path,
		Bin:          bin,
		Python:       filepath.Join(bin, "python"),
		Pip:          filepath.Join(bin, "pip"),
		SitePackages: filepath.Join(path, "lib", "python"+pyVersion, "site-packages"),
	}
}

// Manager creates and uses virtual environments
type Manager struct {
	runner    runner.Runner
	fs        types.FS
	pyVersion string
	dryRun    bool
	planned   *runner.DryRun
	logger    zerolog.Logger
}

// NewManager creates a manager for environments of pyVersion
func NewManager(r runner.Runner, fsys types.FS, pyVersion string) *Manager {
	return &Manager{
		runner:    r,
		fs:        fsys,
		pyVersion: pyVersion,
		logger:    logging.GetLogger("venv"),
	}
}

// WithDryRun makes mutating operations log instead of run
func (m *Manager) WithDryRun(dryRun bool) *Manager {
	m.dryRun = dryRun
	m.planned = nil
	if dryRun {
		m.planned = runner.NewDryRun(m.runner)
	}
	return m
}

// Planned lists the commands a dry run skipped, one per line
func (m *Manager) Planned() string {
	if m.planned == nil {
		return ""
	}
	return m.planned.Describe()
}

// Layout returns the layout of the environment at path
func (m *Manager) Layout(path string) Layout {
	return NewLayout(path, m.pyVersion)
}

// Exists reports whether an environment directory is present at path
func (m *Manager) Exists(path string) bool {
	info, err := m.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (m *Manager) mutating() runner.Runner {
	if m.planned != nil {
		return m.planned
	}
	return m.runner
}

// Create replaces any environment at path with a fresh one built by
// interpreter, then upgrades the given packaging tools.
func (m *Manager) Create(ctx context.Context, interpreter, path string, upgrade []string) (Layout, error) {
	layout := m.Layout(path)
	done := logging.LogOperationStart(m.logger, "create venv "+path)
	defer done()

	if m.Exists(path) && !m.dryRun {
		m.logger.Info().Str("path", path).Msg("Removing existing virtual environment")
		if err := m.fs.RemoveAll(path); err != nil {
			return layout, errors.Wrapf(err, errors.ErrVenvCreate, "failed to remove existing environment at %s", path)
		}
	}

	exec := m.mutating()
	if _, err := exec.Run(ctx, runner.Command{Name: interpreter, Args: []string{"-m", "venv", path}}); err != nil {
		return layout, errors.Wrapf(err, errors.ErrVenvCreate, "failed to create virtual environment at %s", path).
			WithDetail("stderr", errors.Stderr(err))
	}

	if len(upgrade) > 0 {
		args := append([]string{"install", "--upgrade"}, upgrade...)
		if _, err := exec.Run(ctx, runner.Command{Name: layout.Pip, Args: args}); err != nil {
			return layout, errors.Wrapf(err, errors.ErrVenvCreate, "failed to upgrade %s", strings.Join(upgrade, " ")).
				WithDetail("stderr", errors.Stderr(err))
		}
	}
	return layout, nil
}

// InstallPackages installs packages with the environment's pip
func (m *Manager) InstallPackages(ctx context.Context, path string, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	layout := m.Layout(path)
	if !m.Exists(path) && !m.dryRun {
		return errors.Newf(errors.ErrVenvNotFound, "virtual environment not found at %s", path)
	}

	args := append([]string{"install"}, packages...)
	if _, err := m.mutating().Run(ctx, runner.Command{Name: layout.Pip, Args: args}); err != nil {
		return errors.Wrap(err, errors.ErrPackageInstall, "failed to install packages").
			WithDetails(map[string]interface{}{
				"packages": packages,
				"stderr":   errors.Stderr(err),
			})
	}
	return nil
}

// RewriteCommand points a leading "python " or "pip " at the environment
// binaries. A bare "python" or "python3" becomes the environment python.
// Only the first occurrence is replaced and other commands pass through.
func RewriteCommand(command, binDir string) string {
	python := filepath.Join(binDir, "python")
	pip := filepath.Join(binDir, "pip")

	switch {
	case command == "python" || command == "python3":
		return python
	case strings.HasPrefix(command, "python "):
		return strings.Replace(command, "python ", python+" ", 1)
	case strings.HasPrefix(command, "python3 "):
		return strings.Replace(command, "python3 ", python+" ", 1)
	case strings.HasPrefix(command, "pip "):
		return strings.Replace(command, "pip ", pip+" ", 1)
	}
	return command
}

// Exec runs command through the shell inside the environment at path.
// base supplies the rest of the environment, nil means the process env.
// Under dry run the command is only planned.
func (m *Manager) Exec(ctx context.Context, path, command string, base *environ.Env) (runner.Result, error) {
	layout := m.Layout(path)
	if !m.Exists(path) && !m.dryRun {
		return runner.Result{}, errors.Newf(errors.ErrVenvNotFound, "virtual environment not found at %s", path)
	}

	env := environ.FromOS()
	if base != nil {
		env = base.Clone()
	}
	env.PrependPath(layout.Bin)
	env.Set("VIRTUAL_ENV", layout.Path)

	rewritten := RewriteCommand(command, layout.Bin)
	m.logger.Debug().Str("command", command).Str("rewritten", rewritten).Msg("Executing in virtual environment")

	return m.mutating().Run(ctx, runner.Command{Name: rewritten, Shell: true, Env: env.Slice()})
}
