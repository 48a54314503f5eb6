// Package commands provides the high-level flows behind the pyswitch CLI.
//
// Each flow is implemented in its own subdirectory:
//   - find/         - list installed interpreters
//   - switchpy/     - switch the session with the path, symlink and env methods
//   - fix/          - repair a session still running the old interpreter
//   - install/      - install the interpreter with the package manager
//   - venv/         - create, switch to, populate and run in a virtual environment
//   - verify/       - check version, features, environment and pip
//   - writescripts/ - write the persistence scripts
//   - setup/        - the complete installation
//   - shared/       - dependencies and conversions used by every flow
//
// This file re-exports the flows so the CLI depends on one package.
package commands

import (
	"context"

	"github.com/arthur-debert/pyswitch/pkg/commands/find"
	"github.com/arthur-debert/pyswitch/pkg/commands/fix"
	"github.com/arthur-debert/pyswitch/pkg/commands/install"
	"github.com/arthur-debert/pyswitch/pkg/commands/setup"
	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/commands/switchpy"
	"github.com/arthur-debert/pyswitch/pkg/commands/venv"
	"github.com/arthur-debert/pyswitch/pkg/commands/verify"
	"github.com/arthur-debert/pyswitch/pkg/commands/writescripts"
)

// Deps are the collaborators shared by every flow
type Deps = shared.Deps

// FindOptions lists installed interpreters.
type FindOptions = find.Options

func Find(ctx context.Context, opts FindOptions) (*find.Result, error) {
	return find.Find(ctx, opts)
}

// SwitchOptions switches the session to the target interpreter.
type SwitchOptions = switchpy.Options

func Switch(ctx context.Context, opts SwitchOptions) (*switchpy.Result, error) {
	return switchpy.Switch(ctx, opts)
}

// FixOptions repairs a session running the old interpreter.
type FixOptions = fix.Options

func Fix(ctx context.Context, opts FixOptions) (*fix.Result, error) {
	return fix.Fix(ctx, opts)
}

// InstallOptions installs the target interpreter.
type InstallOptions = install.Options

func Install(ctx context.Context, opts InstallOptions) (*install.Result, error) {
	return install.Install(ctx, opts)
}

// VenvOptions configures the virtual environment flows.
type VenvOptions = venv.Options

func VenvCreate(ctx context.Context, opts VenvOptions) (*venv.Result, error) {
	return venv.Create(ctx, opts)
}

func VenvSwitch(ctx context.Context, opts VenvOptions) (*venv.Result, error) {
	return venv.Switch(ctx, opts)
}

func VenvPackages(ctx context.Context, opts VenvOptions) (*venv.Result, error) {
	return venv.Packages(ctx, opts)
}

func VenvExec(ctx context.Context, opts VenvOptions) (*venv.Result, error) {
	return venv.Exec(ctx, opts)
}

// VerifyOptions checks the interpreter in use.
type VerifyOptions = verify.Options

func Verify(ctx context.Context, opts VerifyOptions) (*verify.Result, error) {
	return verify.Verify(ctx, opts)
}

// ScriptsOptions writes the persistence scripts.
type ScriptsOptions = writescripts.Options

func WriteScripts(ctx context.Context, opts ScriptsOptions) (*writescripts.Result, error) {
	return writescripts.Write(ctx, opts)
}

// SetupOptions runs the complete installation.
type SetupOptions = setup.Options

func Setup(ctx context.Context, opts SetupOptions) (*setup.Result, error) {
	return setup.Setup(ctx, opts)
}
