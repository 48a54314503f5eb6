// Package install ensures the target interpreter is installed, using the
// system package manager when it is missing.
package install

import (
	"context"
	"fmt"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/installer"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/style"
)

// Options for the install flow
type Options struct {
	shared.Deps
	// PlanOnly lists the steps without checking or running anything
	PlanOnly bool
}

// Result of the install flow
type Result struct {
	shared.Result
	AlreadyInstalled bool             `json:"alreadyInstalled" yaml:"alreadyInstalled"`
	Steps            []installer.Step `json:"steps" yaml:"steps"`
}

// Install runs the install flow
func Install(ctx context.Context, opts Options) (*Result, error) {
	opts.Prepare()
	d := &opts.Deps

	rep := report.New(fmt.Sprintf("Installing Python %s", d.Config.Target.Version))
	res := &Result{}
	res.Report = rep

	if opts.PlanOnly {
		sec := rep.Section("Plan")
		res.Steps = d.Installer().Plan()
		for _, step := range res.Steps {
			sec.Info(step.Description, step.CommandLine)
		}
		res.OK = true
		return res, nil
	}

	res.AlreadyInstalled, res.Steps, res.OK = Section(ctx, d, rep.Section("Installation"))
	switch {
	case res.AlreadyInstalled:
		rep.SetSummary(style.StatusOK, fmt.Sprintf("Python %s already installed", d.Config.Target.Version), "")
	case res.OK && d.DryRun:
		rep.SetSummary(style.StatusInfo, "Dry run: no commands were executed", "")
	case res.OK:
		rep.SetSummary(style.StatusOK, fmt.Sprintf("Python %s installed successfully!", d.Config.Target.Version), "")
	default:
		rep.SetSummary(style.StatusFail, fmt.Sprintf("Failed to install Python %s", d.Config.Target.Version),
			"The install steps need sudo and network access to the package repository.")
	}
	return res, nil
}

// Section ensures the interpreter is installed and reports each step.
// It returns whether it was already present, the steps that ran and
// whether the interpreter is available afterwards.
func Section(ctx context.Context, d *shared.Deps, sec *report.Section) (bool, []installer.Step, bool) {
	logger := logging.GetLogger("commands.install")
	inst := d.Installer()

	var ran []installer.Step
	already, err := inst.EnsureInstalled(ctx, func(step installer.Step) {
		ran = append(ran, step)
		sec.Info(step.Description, step.CommandLine)
	})

	switch {
	case already:
		ver, _ := inst.Installed(ctx)
		sec.OK(fmt.Sprintf("%s already installed", d.Config.Target.Binary()), ver)
	case err != nil:
		logger.Error().Err(err).Msg("Install failed")
		sec.Error(fmt.Sprintf("Error installing %s", d.Config.Target.Binary()), err, errors.Stderr(err))
	case d.DryRun:
		sec.Info(fmt.Sprintf("%s would be installed", d.Config.Target.Binary()), "")
	default:
		sec.OK(fmt.Sprintf("%s installed successfully", d.Config.Target.Binary()), "")
	}
	return already, ran, err == nil
}
