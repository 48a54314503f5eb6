// Package runner executes external commands synchronously.
//
// Every interaction with the collaborators pyswitch depends on (which,
// apt-get, add-apt-repository, python -m venv, pip) goes through the
// Runner interface. ExecRunner captures stdout and stderr as separate
// text buffers, applies an optional per-command timeout and converts a
// non-zero exit into a COMMAND_FAILED error that carries the captured
// stderr. The Result is returned alongside the error so callers can
// still print the diagnostic text.
//
// DryRun wraps a Runner and turns mutating commands into logged no-ops.
package runner
