// Package fix repairs a session that still runs the old interpreter:
// find the target, point the executable and PATH at it, export the
// version variables and confirm with feature probes.
package fix

import (
	"context"
	"fmt"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/commands/writescripts"
	"github.com/arthur-debert/pyswitch/pkg/probe"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/scripts"
	"github.com/arthur-debert/pyswitch/pkg/session"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/switcher"
)

// Options for the fix flow
type Options struct {
	shared.Deps
	// SkipHelper does not write the helper module
	SkipHelper bool
}

// Result of the fix flow. OK is true when the switch worked and at
// least one version specific feature is available.
type Result struct {
	shared.Result
	Before  session.Snapshot `json:"before" yaml:"before"`
	After   session.Snapshot `json:"after" yaml:"after"`
	Verdict probe.Outcome    `json:"verdict" yaml:"verdict"`
	Helper  string           `json:"helper,omitempty" yaml:"helper,omitempty"`
}

// Fix runs the fix flow on opts.Session
func Fix(ctx context.Context, opts Options) (*Result, error) {
	opts.Prepare()
	d := &opts.Deps
	target := d.Config.Target.Version

	rep := report.New("CDSW Python Version Fix")
	res := &Result{Before: d.Session.Snapshot()}
	res.Report = rep
	snapshotSection(ctx, d, rep.Section("Before fix"), res.Before)

	method := &switcher.PathMethod{Locator: d.Locator(), Target: d.SwitchTarget(), Fallback: true}
	outcome, _, err := switcher.Chain(ctx, d.Session, method)
	steps := rep.Section("Applying fix")
	if err != nil {
		steps.Fail(fmt.Sprintf("Could not find %s executable", d.Config.Target.Binary()), err.Error())
		steps.Info(fmt.Sprintf("Check that Python %s is installed", target), "ls -la /usr/bin/python3*")
		rep.SetSummary(style.StatusFail, fmt.Sprintf("Python %s could not be activated", target), "")
		res.After = d.Session.Snapshot()
		res.Verdict = probe.OutcomeFailure
		return res, nil
	}
	for i, step := range outcome.Steps {
		steps.OK(fmt.Sprintf("%d. %s", i+1, step), "")
	}

	res.After = d.Session.Snapshot()
	snapshotSection(ctx, d, rep.Section("After fix"), res.After)

	results := featureProbes(ctx, d, rep.Section("Verification"))
	res.Verdict = probe.Verdict(results)
	switch res.Verdict {
	case probe.OutcomeSuccess:
		rep.SetSummary(style.StatusOK, fmt.Sprintf("Python %s is now active in your session!", target), "")
	case probe.OutcomePartial:
		rep.SetSummary(style.StatusWarn, fmt.Sprintf("Partial success: some Python %s features are available", target), "")
	default:
		rep.SetSummary(style.StatusFail, fmt.Sprintf("Python %s features are not available", target), "")
	}

	if !opts.SkipHelper {
		written, _ := writescripts.Section(d, rep.Section("Helper Function"), writescripts.Params{}, scripts.KindHelper)
		res.Helper = written[scripts.KindHelper]
	}

	res.OK = res.Verdict != probe.OutcomeFailure
	return res, nil
}

func snapshotSection(ctx context.Context, d *shared.Deps, sec *report.Section, snap session.Snapshot) {
	exe := snap.Executable
	if exe == "" {
		sec.Warn("Python executable", "unknown")
		return
	}
	sec.Info("Python executable", exe)
	if ver, err := d.Locator().Version(ctx, exe); err == nil {
		sec.Info("Python version", ver)
	} else {
		sec.Warn("Python version", "unknown")
	}
}

// featureProbes runs only the version specific probes
func featureProbes(ctx context.Context, d *shared.Deps, sec *report.Section) []probe.Result {
	var probes []probe.Probe
	for _, p := range d.Probes() {
		if p.Since != "" {
			probes = append(probes, p)
		}
	}

	results := d.Prober().Run(ctx, d.Session.Executable, probes)
	for _, r := range results {
		label := fmt.Sprintf("%s (Python %s+)", r.Probe.Name, r.Probe.Since)
		if r.Available {
			sec.OK(label, "available")
		} else {
			sec.Fail(label, "not available")
		}
	}
	return results
}
