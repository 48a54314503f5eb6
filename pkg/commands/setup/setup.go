// Package setup runs the complete installation: install the interpreter,
// create and switch to a virtual environment, install the common
// packages, write the activation script and verify.
package setup

import (
	"context"
	"fmt"

	"github.com/arthur-debert/pyswitch/pkg/commands/install"
	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	venvflow "github.com/arthur-debert/pyswitch/pkg/commands/venv"
	"github.com/arthur-debert/pyswitch/pkg/commands/verify"
	"github.com/arthur-debert/pyswitch/pkg/commands/writescripts"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/paths"
	"github.com/arthur-debert/pyswitch/pkg/probe"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/scripts"
	"github.com/arthur-debert/pyswitch/pkg/style"
)

// Options for the setup flow
type Options struct {
	shared.Deps
	// VenvPath overrides the configured environment path
	VenvPath string
	// SkipPackages does not install the common packages
	SkipPackages bool
}

// Result of the setup flow. OK is true when the final verification
// found the target version active and its features usable.
type Result struct {
	shared.Result
	// Stage is the last stage reached
	Stage      Stage  `json:"stage" yaml:"stage"`
	Activation string `json:"activation,omitempty" yaml:"activation,omitempty"`
}

// Stage names a step of the setup
type Stage string

const (
	StageCheck    Stage = "check"
	StageInstall  Stage = "install"
	StageVenv     Stage = "venv"
	StageSwitch   Stage = "switch"
	StagePackages Stage = "packages"
	StageScripts  Stage = "scripts"
	StageVerify   Stage = "verify"
)

// Setup runs the complete installation on opts.Session
func Setup(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.setup")
	opts.Prepare()
	d := &opts.Deps
	target := d.Config.Target.Version

	venvPath := d.Config.VenvPath()
	if opts.VenvPath != "" {
		venvPath = paths.ExpandHome(opts.VenvPath)
	}

	rep := report.New(fmt.Sprintf("CDSW Python %s Complete Installation and Switching", target))
	res := &Result{Stage: StageCheck}
	res.Report = rep
	abort := func(stage Stage, msg string) (*Result, error) {
		logger.Error().Str("stage", string(stage)).Msg(msg)
		res.Stage = stage
		rep.SetSummary(style.StatusFail, msg, troubleshooting(d))
		return res, nil
	}

	current := rep.Section("Current Python Version")
	if exe := d.Session.Executable; exe != "" {
		current.Info("Python executable", exe)
		if ver, err := d.Locator().Version(ctx, exe); err == nil {
			current.Info("Python version", ver)
		}
	} else {
		current.Warn("Python executable", "no python3 on PATH")
	}

	res.Stage = StageInstall
	if _, _, ok := install.Section(ctx, d, rep.Section(fmt.Sprintf("Installing Python %s", target))); !ok {
		return abort(StageInstall, fmt.Sprintf("Failed to install Python %s. Exiting.", target))
	}

	res.Stage = StageVenv
	venvSec := rep.Section(fmt.Sprintf("Creating Python %s Virtual Environment", target))
	if !venvflow.CreateSection(ctx, d, venvSec, venvPath, false) {
		return abort(StageVenv, fmt.Sprintf("Failed to create Python %s virtual environment. Exiting.", target))
	}

	if d.DryRun {
		rep.Section("Dry Run").Info("Switch, packages and verification need the environment and were skipped", "")
		res.Stage = StageScripts
		writeActivation(d, rep, res, venvPath)
		res.OK = true
		rep.SetSummary(style.StatusInfo, "Dry run: no commands were executed", "")
		return res, nil
	}

	res.Stage = StageSwitch
	switchSec := rep.Section(fmt.Sprintf("Switching to Python %s Virtual Environment", target))
	if _, ok := venvflow.SwitchSection(ctx, d, rep, switchSec, venvPath); !ok {
		return abort(StageSwitch, fmt.Sprintf("Failed to switch to Python %s virtual environment. Exiting.", target))
	}

	if !opts.SkipPackages {
		res.Stage = StagePackages
		pkgSec := rep.Section("Installing Common Packages")
		if !venvflow.PackagesSection(ctx, d, pkgSec, venvPath, nil) {
			pkgSec.Warn("Failed to install common packages", "continuing")
		}
	}

	res.Stage = StageScripts
	writeActivation(d, rep, res, venvPath)

	res.Stage = StageVerify
	_, active := verify.VersionSection(ctx, d, rep, d.Session.Executable)
	features := verify.FeaturesSection(ctx, d, rep, d.Session.Executable)
	verify.EnvironmentSection(ctx, d, rep, d.Session.Executable)

	if !active || probe.Verdict(features) == probe.OutcomeFailure {
		rep.SetSummary(style.StatusFail, fmt.Sprintf("Python %s setup failed verification", target), troubleshooting(d))
		return res, nil
	}

	usage := rep.Section("Usage in CDSW")
	usage.Info("Activate in a terminal", "source "+res.Activation)
	usage.Info("Apply to the current shell", `eval "$(pyswitch venv switch --exports)"`)
	usage.Info("Run a command in the environment", `pyswitch venv exec -- "python -c 'import sys; print(sys.version)'"`)
	rep.SetSummary(style.StatusOK, fmt.Sprintf("Python %s setup completed successfully!", target), "")
	res.OK = true
	return res, nil
}

func writeActivation(d *shared.Deps, rep *report.Report, res *Result, venvPath string) {
	written, _ := writescripts.Section(d, rep.Section("Activation Script"),
		writescripts.Params{VenvPath: venvPath}, scripts.KindActivation)
	res.Activation = written[scripts.KindActivation]
}

func troubleshooting(d *shared.Deps) string {
	return fmt.Sprintf("Troubleshooting: installing needs sudo and network access; "+
		"check '%s --version', the %s package and the log file for details.",
		d.Config.Target.Binary(), d.Config.Target.Binary()+"-venv")
}
