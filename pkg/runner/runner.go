package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes a single subprocess invocation.
type Command struct {
	// Name is the program to run, or the full command line when Shell is set
	Name string
	Args []string

	// Env replaces the child environment when non-nil
	Env []string
	Dir string

	// Timeout of zero means no deadline beyond the caller's context
	Timeout time.Duration

	// Shell runs Name through "sh -c"
	Shell bool
}

// String renders the command line for logs and reports.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Output returns trimmed stdout, falling back to stderr when stdout is empty.
// Old interpreters print "--version" to stderr.
func (r Result) Output() string {
	if out := strings.TrimSpace(r.Stdout); out != "" {
		return out
	}
	return strings.TrimSpace(r.Stderr)
}

// Runner runs commands and resolves executables.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		logger: logging.GetLogger("runner"),
	}
}

// LookPath resolves name against the current PATH
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound, "executable %s not found", name)
	}
	return path, nil
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{}, errors.New(errors.ErrInvalidInput, "command requires a name")
	}

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	var c *exec.Cmd
	if cmd.Shell {
		c = exec.CommandContext(ctx, "sh", "-c", cmd.Name)
	} else {
		c = exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	}

	if cmd.Dir != "" {
		if _, err := os.Stat(cmd.Dir); err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrFileAccess,
				"working directory does not exist: %s", cmd.Dir)
		}
		c.Dir = cmd.Dir
	}
	if cmd.Env != nil {
		c.Env = cmd.Env
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	logging.LogCommand(cmd.Name, cmd.Args)
	start := time.Now()
	err := c.Run()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(c, err),
		Duration: time.Since(start),
	}

	if err == nil {
		r.logger.Debug().
			Str("command", cmd.String()).
			Dur("duration", result.Duration).
			Msg("Command succeeded")
		return result, nil
	}

	r.logger.Debug().
		Err(err).
		Str("command", cmd.String()).
		Int("exitCode", result.ExitCode).
		Str("stderr", result.Stderr).
		Msg("Command failed")

	return result, commandError(cmd, result, ctx.Err(), err)
}

func commandError(cmd Command, result Result, ctxErr, err error) error {
	var pErr *errors.Error
	switch {
	case stderrors.Is(ctxErr, context.DeadlineExceeded):
		pErr = errors.Wrapf(err, errors.ErrCommandTimeout,
			"command timed out after %s: %s", cmd.Timeout, cmd.String())
	case isNotFound(err):
		pErr = errors.Wrapf(err, errors.ErrNotFound,
			"command not found: %s", commandName(cmd))
	default:
		pErr = errors.Wrapf(err, errors.ErrCommandFailed,
			"command failed: %s", cmd.String())
	}

	return pErr.WithDetails(map[string]interface{}{
		"command":   cmd.String(),
		"exit_code": result.ExitCode,
		"stdout":    result.Stdout,
		"stderr":    result.Stderr,
	})
}

func commandName(cmd Command) string {
	if cmd.Shell {
		return "sh"
	}
	return cmd.Name
}

func isNotFound(err error) bool {
	var execErr *exec.Error
	if stderrors.As(err, &execErr) {
		return true
	}
	return os.IsNotExist(err)
}

func exitCode(c *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	if c.ProcessState != nil {
		return c.ProcessState.ExitCode()
	}
	return -1
}

// DryRun wraps a Runner so that commands are logged but not executed.
type DryRun struct {
	inner  Runner
	logger zerolog.Logger
	// Planned records every command that would have run
	Planned []Command
}

// NewDryRun creates a dry-run wrapper around inner
func NewDryRun(inner Runner) *DryRun {
	return &DryRun{
		inner:  inner,
		logger: logging.GetLogger("runner.dryrun"),
	}
}

// Run records the command and returns an empty success
func (d *DryRun) Run(_ context.Context, cmd Command) (Result, error) {
	d.logger.Info().Str("command", cmd.String()).Msg("Dry run mode - command would be executed")
	d.Planned = append(d.Planned, cmd)
	return Result{}, nil
}

// LookPath delegates to the wrapped runner, lookups have no side effects
func (d *DryRun) LookPath(name string) (string, error) {
	return d.inner.LookPath(name)
}

// Describe renders the planned commands one per line.
func (d *DryRun) Describe() string {
	var b strings.Builder
	for _, cmd := range d.Planned {
		fmt.Fprintf(&b, "%s\n", cmd.String())
	}
	return b.String()
}

var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*DryRun)(nil)
)
