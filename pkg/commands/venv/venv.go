// Package venv creates virtual environments for the target interpreter,
// switches sessions into them and runs commands inside them.
package venv

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/commands/install"
	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/commands/verify"
	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/paths"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/switcher"
	pyvenv "github.com/arthur-debert/pyswitch/pkg/venv"
)

// Options for the venv flows
type Options struct {
	shared.Deps
	// Path of the environment, defaults to the configured one
	Path string
	// Create makes Switch create a missing environment
	Create bool
	// InstallMissing makes Create install the interpreter when absent
	InstallMissing bool
	// Packages for Packages, defaults to the configured list
	Packages []string
	// Command for Exec
	Command string
}

// Output is the captured output of Exec
type Output struct {
	Stdout   string `json:"stdout" yaml:"stdout"`
	Stderr   string `json:"stderr" yaml:"stderr"`
	ExitCode int    `json:"exitCode" yaml:"exitCode"`
}

// Result of the venv flows
type Result struct {
	shared.Result
	Layout  pyvenv.Layout     `json:"layout" yaml:"layout"`
	Outcome *switcher.Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Output  *Output           `json:"output,omitempty" yaml:"output,omitempty"`
}

func (o *Options) path() string {
	if o.Path == "" {
		return o.Config.VenvPath()
	}
	return paths.ExpandHome(o.Path)
}

func newResult(d *shared.Deps, title, path string) *Result {
	res := &Result{Layout: d.VenvManager().Layout(path)}
	res.Report = report.New(title)
	return res
}

// Create builds a fresh environment, replacing any existing one
func Create(ctx context.Context, opts Options) (*Result, error) {
	opts.Prepare()
	d := &opts.Deps
	path := opts.path()

	res := newResult(d, fmt.Sprintf("Creating Python %s Virtual Environment", d.Config.Target.Version), path)
	res.OK = CreateSection(ctx, d, res.Report.Section("Virtual Environment"), path, opts.InstallMissing)
	summarize(res.Report, res.OK, "Virtual environment ready at "+path, "Failed to create virtual environment")
	return res, nil
}

// CreateSection locates the interpreter and creates the environment
func CreateSection(ctx context.Context, d *shared.Deps, sec *report.Section, path string, installMissing bool) bool {
	logger := logging.GetLogger("commands.venv")
	binary := d.Config.Target.Binary()

	interp, err := d.Locator().Find(ctx, binary)
	if err != nil && installMissing {
		sec.Warn(fmt.Sprintf("Python %s not found", d.Config.Target.Version), "installing")
		if _, _, ok := install.Section(ctx, d, sec); !ok {
			return false
		}
		interp, err = d.Locator().Find(ctx, binary)
	}
	if err != nil && d.DryRun {
		interp = discovery.Interpreter{Command: binary, Path: binary}
		err = nil
	}
	if err != nil {
		sec.Fail(fmt.Sprintf("Python %s not found", d.Config.Target.Version), err.Error())
		return false
	}
	sec.OK(fmt.Sprintf("Found Python %s", d.Config.Target.Version), interp.Path)

	mgr := d.VenvManager()
	if mgr.Exists(path) {
		sec.Info("Removing existing virtual environment", path)
	}
	if _, err := mgr.Create(ctx, interp.Path, path, d.Config.Venv.Upgrade); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Virtual environment creation failed")
		sec.Error("Error creating virtual environment", err, errors.Stderr(err))
		return false
	}
	sec.OK("Virtual environment created", path)
	if len(d.Config.Venv.Upgrade) > 0 {
		sec.OK("Upgraded "+strings.Join(d.Config.Venv.Upgrade, " "), "")
	}
	return true
}

// Switch points the session at the environment, creating it first when
// opts.Create is set
func Switch(ctx context.Context, opts Options) (*Result, error) {
	opts.Prepare()
	d := &opts.Deps
	path := opts.path()

	res := newResult(d, fmt.Sprintf("Switching to Python %s Virtual Environment", d.Config.Target.Version), path)
	rep := res.Report
	sec := rep.Section("Virtual Environment")

	if !d.VenvManager().Exists(path) && opts.Create {
		sec.Info("Virtual environment not found, creating it now", path)
		if !CreateSection(ctx, d, sec, path, opts.InstallMissing) {
			summarize(rep, false, "", "Failed to switch to virtual environment")
			return res, nil
		}
		if d.DryRun {
			sec.Info("Dry run: switch skipped", "")
			res.OK = true
			return res, nil
		}
	}

	outcome, ok := SwitchSection(ctx, d, rep, sec, path)
	res.Outcome = outcome
	res.OK = ok
	summarize(rep, ok, "Environment switch completed!", "Failed to switch to virtual environment")
	return res, nil
}

// SwitchSection switches the session and verifies the result
func SwitchSection(ctx context.Context, d *shared.Deps, rep *report.Report, sec *report.Section, path string) (*switcher.Outcome, bool) {
	outcome, err := switcher.SwitchToVenv(d.Session, d.FS, d.VenvTarget(path))
	if err != nil {
		sec.Fail(fmt.Sprintf("Virtual environment not found at %s", path), err.Error())
		return nil, false
	}
	shared.Outcome(sec, outcome)

	if d.Session.Executable != "" {
		verify.VersionSection(ctx, d, rep, d.Session.Executable)
	}
	return &outcome, true
}

// Packages installs packages into the environment
func Packages(ctx context.Context, opts Options) (*Result, error) {
	opts.Prepare()
	d := &opts.Deps
	path := opts.path()

	res := newResult(d, "Installing Common Packages", path)
	res.OK = PackagesSection(ctx, d, res.Report.Section("Packages"), path, opts.Packages)
	summarize(res.Report, res.OK, "Common packages installed successfully!", "Failed to install packages")
	return res, nil
}

// PackagesSection installs packages, the configured ones when empty
func PackagesSection(ctx context.Context, d *shared.Deps, sec *report.Section, path string, packages []string) bool {
	if len(packages) == 0 {
		packages = d.Config.Venv.Packages
	}
	if err := d.VenvManager().InstallPackages(ctx, path, packages); err != nil {
		sec.Error("Error installing packages", err, errors.Stderr(err))
		return false
	}
	sec.OK(fmt.Sprintf("Installed %d packages", len(packages)), strings.Join(packages, " "))
	return true
}

// Exec runs opts.Command inside the environment
func Exec(ctx context.Context, opts Options) (*Result, error) {
	opts.Prepare()
	d := &opts.Deps
	path := opts.path()
	if strings.TrimSpace(opts.Command) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no command given")
	}

	res := newResult(d, fmt.Sprintf("Executing Command with Python %s", d.Config.Target.Version), path)
	sec := res.Report.Section("Command")
	sec.Info("Command", opts.Command)

	mgr := d.VenvManager()
	out, err := mgr.Exec(ctx, path, opts.Command, d.Session.Env)
	if err != nil {
		res.Output = &Output{Stdout: out.Stdout, Stderr: out.Stderr, ExitCode: out.ExitCode}
		sec.Error("Error executing command", err, errors.Stderr(err))
		return res, nil
	}
	if d.DryRun {
		sec.Info("Would execute", strings.TrimSpace(mgr.Planned()))
		res.OK = true
		return res, nil
	}
	res.Output = &Output{Stdout: out.Stdout, Stderr: out.Stderr, ExitCode: out.ExitCode}

	sec.OK("Command executed successfully", "")
	if s := strings.TrimSpace(out.Stdout); s != "" {
		sec.Info("Output", s)
	}
	if s := strings.TrimSpace(out.Stderr); s != "" {
		sec.Warn("Errors", s)
	}
	res.OK = true
	return res, nil
}

func summarize(rep *report.Report, ok bool, success, failure string) {
	if ok {
		rep.SetSummary(style.StatusOK, success, "")
		return
	}
	rep.SetSummary(style.StatusFail, failure, "")
}
