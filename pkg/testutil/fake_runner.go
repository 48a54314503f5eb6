package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/runner"
)

// FakeResponse is the scripted outcome of one command line.
type FakeResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err overrides the error returned, ExitCode is ignored when set
	Err error
	// Hook runs when the command is executed, before the result is returned
	Hook func(cmd runner.Command)
}

// FakeRunner is a runner.Runner whose responses are scripted per command
// line. Commands with no script behave like a missing binary.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	paths     map[string]string
	calls     []runner.Command
}

// NewFakeRunner creates an empty fake runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]FakeResponse),
		paths:     make(map[string]string),
	}
}

// On scripts a successful command printing stdout.
func (f *FakeRunner) On(cmdline, stdout string) *FakeRunner {
	return f.Respond(cmdline, FakeResponse{Stdout: stdout})
}

// OnFail scripts a command that exits with code and prints stderr.
func (f *FakeRunner) OnFail(cmdline, stderr string, code int) *FakeRunner {
	return f.Respond(cmdline, FakeResponse{Stderr: stderr, ExitCode: code})
}

// Respond scripts an arbitrary response.
func (f *FakeRunner) Respond(cmdline string, resp FakeResponse) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = resp
	return f
}

// Executable registers a binary for LookPath and scripts "which name".
func (f *FakeRunner) Executable(name, path string) *FakeRunner {
	f.mu.Lock()
	f.paths[name] = path
	f.mu.Unlock()
	return f.On("which "+name, path+"\n")
}

// Run implements runner.Runner
func (f *FakeRunner) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	if err := ctx.Err(); err != nil {
		return runner.Result{}, errors.Wrap(err, errors.ErrCommandTimeout, "context done")
	}

	line := cmd.String()
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	resp, ok := f.responses[line]
	f.mu.Unlock()

	if !ok {
		return runner.Result{ExitCode: 127, Stderr: fmt.Sprintf("%s: command not found\n", line)},
			errors.Newf(errors.ErrNotFound, "command not found: %s", line).
				WithDetail("stderr", fmt.Sprintf("%s: command not found\n", line))
	}

	if resp.Hook != nil {
		resp.Hook(cmd)
	}

	result := runner.Result{Stdout: resp.Stdout, Stderr: resp.Stderr, ExitCode: resp.ExitCode}
	if resp.Err != nil {
		return result, resp.Err
	}
	if resp.ExitCode != 0 {
		return result, errors.Newf(errors.ErrCommandFailed, "command failed: %s", line).
			WithDetails(map[string]interface{}{
				"command":   line,
				"exit_code": resp.ExitCode,
				"stdout":    resp.Stdout,
				"stderr":    resp.Stderr,
			})
	}
	return result, nil
}

// LookPath implements runner.Runner
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", errors.Newf(errors.ErrNotFound, "executable %s not found", name)
}

// Calls returns the commands run so far.
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.calls...)
}

// CallLines returns the command lines run so far, in order.
func (f *FakeRunner) CallLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Ran reports whether a command line starting with prefix was run.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, line := range f.CallLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

var _ runner.Runner = (*FakeRunner)(nil)
