// Package switchpy switches the session to the target interpreter by
// trying the path, symlink and environment methods in turn, then writes
// the scripts that repeat the switch in later sessions.
package switchpy

import (
	"context"
	"fmt"

	"github.com/arthur-debert/pyswitch/pkg/commands/find"
	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/commands/verify"
	"github.com/arthur-debert/pyswitch/pkg/commands/writescripts"
	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/scripts"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/switcher"
)

// pathPreview is how much of the new PATH the report shows
const pathPreview = 100

// Options for the switch flow
type Options struct {
	shared.Deps
	// Method forces one switch method: path, symlink or env
	Method string
	// SkipScripts does not write the switch script and alias file
	SkipScripts bool
}

// Result of the switch flow. OK is true when a method succeeded.
type Result struct {
	shared.Result
	Installations []discovery.Installation `json:"installations" yaml:"installations"`
	Outcome       *switcher.Outcome        `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Verified      bool                     `json:"verified" yaml:"verified"`
	Written       map[scripts.Kind]string  `json:"written,omitempty" yaml:"written,omitempty"`
}

// Switch runs the switch flow on opts.Session
func Switch(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.switch")
	opts.Prepare()
	d := &opts.Deps
	cfg := d.Config
	target := cfg.Target.Version

	methods, err := switcher.MethodsByName(opts.Method, d.Locator(), d.FS, d.SwitchTarget())
	if err != nil {
		return nil, err
	}

	rep := report.New("CDSW Python Version Switcher")
	res := &Result{}
	res.Report = rep
	versions := append(append([]string(nil), cfg.Target.Legacy...), target)
	res.Installations = find.Section(ctx, d, rep, versions)

	sec := rep.Section(fmt.Sprintf("Switching to Python %s", target))
	outcome, attempts, chainErr := switcher.Chain(ctx, d.Session, methods...)
	for i, a := range attempts {
		if a.Err != nil {
			sec.Warn(fmt.Sprintf("Method %d (%s) failed", i+1, a.Method), a.Err.Error())
			continue
		}
		sec.OK(fmt.Sprintf("Method %d (%s) succeeded", i+1, a.Method), outcome.Interpreter.Path)
	}

	switched := chainErr == nil
	if switched {
		res.Outcome = &outcome
		shared.Outcome(sec, outcome)
		sec.Info("New PATH", environ.Truncate(d.Session.Env.Get(environ.PathVar), pathPreview))
		_, res.Verified = verify.VersionSection(ctx, d, rep, d.Session.Executable)
	} else {
		logger.Warn().Err(chainErr).Msg("All switch methods failed")
		sec.Fail("All switching methods failed", chainErr.Error())
	}

	if !opts.SkipScripts {
		params := writescripts.Params{}
		if switched {
			params.Interpreter = outcome.Interpreter.Path
		}
		res.Written, _ = writescripts.Section(d, rep.Section("Persistent Scripts"), params,
			scripts.KindSwitch, scripts.KindAliases)
	}

	if switched {
		usage := rep.Section("Usage")
		usage.Info("Apply to the current shell", `eval "$(pyswitch switch --exports)"`)
		paths := cfg.ScriptPaths()
		usage.Info("Make the switch persistent at session startup", "source "+paths.Switch)
		usage.Info("Or load the aliases", "source "+paths.Aliases)
		usage.Info("Verify", "pyswitch verify")

		rep.SetSummary(style.StatusOK,
			fmt.Sprintf("Successfully switched to Python %s using the %s method", target, outcome.Method), "")
	} else {
		rep.SetSummary(style.StatusFail, "All switching methods failed",
			fmt.Sprintf("Install Python %s with 'pyswitch install' or add its directory to target.search_dirs.", target))
	}

	res.OK = switched
	return res, nil
}
