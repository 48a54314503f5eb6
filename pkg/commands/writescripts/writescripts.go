// Package writescripts generates the files that make a switch persist
// across sessions.
package writescripts

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/scripts"
)

// AllKinds lists every artifact in generation order
var AllKinds = []scripts.Kind{
	scripts.KindSwitch,
	scripts.KindAliases,
	scripts.KindActivation,
	scripts.KindHelper,
}

// Options for the scripts flow
type Options struct {
	shared.Deps
	// Kinds to write, empty means all
	Kinds []scripts.Kind
	// Interpreter is what the plain python alias points at
	Interpreter string
	// VenvPath overrides the configured virtual environment
	VenvPath string
}

// Result of the scripts flow
type Result struct {
	shared.Result
	Written map[scripts.Kind]string `json:"written" yaml:"written"`
}

// Write renders and writes the requested artifacts
func Write(ctx context.Context, opts Options) (*Result, error) {
	opts.Prepare()
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = AllKinds
	}

	rep := report.New("Creating Persistent Scripts")
	written, ok := Section(&opts.Deps, rep.Section("Scripts"), Params{
		Interpreter: opts.Interpreter,
		VenvPath:    opts.VenvPath,
	}, kinds...)

	res := &Result{Written: written}
	res.Report = rep
	res.OK = ok
	return res, nil
}

// Params are the per-run template inputs
type Params struct {
	Interpreter string
	VenvPath    string
}

// ParseKind validates an artifact name
func ParseKind(name string) (scripts.Kind, error) {
	for _, k := range AllKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput,
		"unknown script %q (want switch, aliases, activation or helper)", name)
}

// Build renders one artifact at its configured path
func Build(d *shared.Deps, kind scripts.Kind, p Params) (scripts.Artifact, error) {
	target := d.ScriptTarget()
	paths := d.Config.ScriptPaths()

	switch kind {
	case scripts.KindSwitch:
		return scripts.SwitchScript(target, paths.Switch)
	case scripts.KindAliases:
		return scripts.AliasFile(target, p.Interpreter, paths.Aliases)
	case scripts.KindActivation:
		venvPath := p.VenvPath
		if venvPath == "" {
			venvPath = d.Config.VenvPath()
		}
		return scripts.ActivationScript(target, venvPath, paths.Activation)
	case scripts.KindHelper:
		return scripts.HelperModule(target, paths.Helper)
	}
	return scripts.Artifact{}, errors.Newf(errors.ErrInvalidInput, "unknown script kind %q", kind)
}

// Section writes kinds and reports each one with its usage hint. It
// returns the written paths and whether all writes succeeded.
func Section(d *shared.Deps, sec *report.Section, p Params, kinds ...scripts.Kind) (map[scripts.Kind]string, bool) {
	logger := logging.GetLogger("commands.scripts")
	writer := d.Writer()
	written := make(map[scripts.Kind]string, len(kinds))
	ok := true

	for _, kind := range kinds {
		artifact, err := Build(d, kind, p)
		if err == nil {
			var path string
			path, err = writer.Write(artifact)
			if err == nil {
				written[kind] = path
				sec.OK(fmt.Sprintf("Created %s", describe(kind)), path)
				sec.Info("To use it", usage(kind, path, d.ScriptTarget()))
				continue
			}
		}
		logger.Error().Err(err).Str("kind", string(kind)).Msg("Failed to write script")
		sec.Fail(fmt.Sprintf("Error creating %s", describe(kind)), err.Error())
		ok = false
	}
	return written, ok
}

func describe(kind scripts.Kind) string {
	switch kind {
	case scripts.KindSwitch:
		return "switch script"
	case scripts.KindAliases:
		return "alias file"
	case scripts.KindActivation:
		return "activation script"
	default:
		return "helper module"
	}
}

func usage(kind scripts.Kind, path string, t scripts.Target) string {
	if kind == scripts.KindHelper {
		module := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return fmt.Sprintf("from %s import switch_to_python%s; switch_to_python%s()",
			module, t.NoDot(), t.NoDot())
	}
	return "source " + path
}
