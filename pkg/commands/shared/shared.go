// Package shared holds the dependencies every pyswitch flow runs with and
// the conversions from configuration to the domain packages.
package shared

import (
	"github.com/arthur-debert/pyswitch/pkg/config"
	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/filesystem"
	"github.com/arthur-debert/pyswitch/pkg/installer"
	"github.com/arthur-debert/pyswitch/pkg/probe"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/runner"
	"github.com/arthur-debert/pyswitch/pkg/scripts"
	"github.com/arthur-debert/pyswitch/pkg/session"
	"github.com/arthur-debert/pyswitch/pkg/switcher"
	"github.com/arthur-debert/pyswitch/pkg/types"
	"github.com/arthur-debert/pyswitch/pkg/venv"
)

// Deps are the collaborators of a flow. Zero values are filled by Prepare.
type Deps struct {
	Config  *config.Config
	Runner  runner.Runner
	FS      types.FS
	Session *session.Session
	// DryRun plans mutating commands and keeps file writes in memory
	DryRun bool
}

// Prepare fills unset dependencies with their production defaults. The
// session executable starts as the python3 found on PATH.
func (d *Deps) Prepare() {
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Runner == nil {
		d.Runner = runner.NewExecRunner()
	}
	if d.FS == nil {
		if d.DryRun {
			d.FS = filesystem.NewOverlay()
		} else {
			d.FS = filesystem.NewOS()
		}
	}
	if d.Session == nil {
		d.Session = session.New(nil)
	}
	if d.Session.Executable == "" {
		if path, err := d.Runner.LookPath(discovery.DefaultCommand); err == nil {
			d.Session.SetExecutable(path)
		}
	}
}

// Locator returns an interpreter locator over the configured candidates
func (d *Deps) Locator() *discovery.Locator {
	return discovery.NewLocator(d.Runner, d.FS, d.Config.Target.Candidates())
}

// SwitchTarget converts the configured target for the switch methods
func (d *Deps) SwitchTarget() switcher.Target {
	return switcher.Target{
		Version:  d.Config.Target.Version,
		Binary:   d.Config.Target.Binary(),
		LocalBin: d.Config.ScriptPaths().LocalBin,
		ExtraEnv: d.Config.Env,
	}
}

// VenvTarget converts the configured virtual environment
func (d *Deps) VenvTarget(path string) switcher.VenvTarget {
	if path == "" {
		path = d.Config.VenvPath()
	}
	return switcher.VenvTarget{
		Path:         path,
		PyVersion:    d.Config.Target.Version,
		StripMarkers: d.Config.Venv.StripMarkers,
	}
}

// ScriptTarget converts the configured target for the templates
func (d *Deps) ScriptTarget() scripts.Target {
	return scripts.Target{Version: d.Config.Target.Version, Binary: d.Config.Target.Binary()}
}

// Probes returns the configured feature probes, or the built-in ones
func (d *Deps) Probes() []probe.Probe {
	if len(d.Config.Verify.Probes) == 0 {
		return probe.DefaultProbes
	}
	probes := make([]probe.Probe, len(d.Config.Verify.Probes))
	for i, p := range d.Config.Verify.Probes {
		probes[i] = probe.Probe{Name: p.Name, Code: p.Code, Since: p.Since}
	}
	return probes
}

// Prober returns a prober that runs with the session environment
func (d *Deps) Prober() *probe.Prober {
	return probe.New(d.Runner, d.Session.CommandEnv())
}

// Installer returns the package manager installer for the target
func (d *Deps) Installer() *installer.Installer {
	in := d.Config.Install
	return installer.New(d.Runner, installer.Options{
		Binary:         d.Config.Target.Binary(),
		Manager:        in.Manager,
		RepositoryTool: in.RepositoryTool,
		Sudo:           in.Sudo,
		Repository:     in.Repository,
		BuildDeps:      in.BuildDeps,
		Packages:       d.Config.InterpreterPackages(),
		DryRun:         d.DryRun,
	})
}

// VenvManager returns the virtual environment manager for the target
func (d *Deps) VenvManager() *venv.Manager {
	return venv.NewManager(d.Runner, d.FS, d.Config.Target.Version).WithDryRun(d.DryRun)
}

// Writer returns the artifact writer
func (d *Deps) Writer() *scripts.Writer {
	return scripts.NewWriter(d.FS).WithDryRun(d.DryRun)
}

// Result is what every flow returns
type Result struct {
	Report *report.Report `json:"report" yaml:"report"`
	OK     bool           `json:"ok" yaml:"ok"`
}

// Outcome appends the steps and warnings of a switch to section
func Outcome(sec *report.Section, out switcher.Outcome) {
	for _, step := range out.Steps {
		sec.Info(step, "")
	}
	for _, w := range out.Warnings {
		sec.Warn(w, "")
	}
}
