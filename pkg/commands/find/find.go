// Package find lists the interpreters installed on the machine.
package find

import (
	"context"
	"fmt"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/report"
)

// Options for the find flow
type Options struct {
	shared.Deps
	// Versions to look for, defaults to the legacy versions plus the target
	Versions []string
}

// Result of the find flow. OK is true when the target was found.
type Result struct {
	shared.Result
	Installations []discovery.Installation `json:"installations" yaml:"installations"`
}

// Find lists python<v> for each version and the default python3
func Find(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.find")
	opts.Prepare()

	versions := opts.Versions
	if len(versions) == 0 {
		versions = append(append([]string(nil), opts.Config.Target.Legacy...), opts.Config.Target.Version)
	}
	logger.Debug().Strs("versions", versions).Msg("Looking for interpreters")

	rep := report.New("Finding Python Installations")
	installs := Section(ctx, &opts.Deps, rep, versions)

	res := &Result{Installations: installs}
	res.Report = rep
	for _, inst := range installs {
		if inst.Label == opts.Config.Target.Version && inst.Found {
			res.OK = true
		}
	}
	return res, nil
}

// Section probes the installations and adds them to rep
func Section(ctx context.Context, d *shared.Deps, rep *report.Report, versions []string) []discovery.Installation {
	installs := d.Locator().FindInstallations(ctx, versions)
	sec := rep.Section("Installations")
	for _, inst := range installs {
		label := "Python " + inst.Label
		if inst.Label == "default" {
			label = "default " + inst.Command
		}
		if inst.Found {
			sec.OK(label, fmt.Sprintf("%s (%s)", inst.Location, inst.Version))
		} else {
			sec.Warn(label, "not found in PATH")
		}
	}
	return installs
}
