// Package probe checks what an interpreter can actually do by running
// small snippets inside it.
package probe

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/runner"
	version "github.com/hashicorp/go-version"
	"github.com/rs/zerolog"
)

// Probe is a snippet that succeeds only on capable interpreters
type Probe struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
	// Since is the first version expected to pass, empty for any
	Since string `json:"since,omitempty" yaml:"since,omitempty"`
}

// DefaultProbes are used when none are configured
var DefaultProbes = []Probe{
	{Name: "zoneinfo module", Code: "import zoneinfo", Since: "3.9"},
	{Name: "tomllib module", Code: "import tomllib", Since: "3.11"},
	{Name: "Exception groups", Code: "ExceptionGroup('test', [ValueError('test')])", Since: "3.11"},
	{Name: "fcntl module", Code: "import fcntl"},
}

// Result is the outcome of one probe
type Result struct {
	Probe     Probe  `json:"probe" yaml:"probe"`
	Available bool   `json:"available" yaml:"available"`
	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
}

// Class groups interpreter versions relative to the target
type Class string

const (
	ClassCurrent Class = "current"
	ClassPartial Class = "partial"
	ClassLegacy  Class = "legacy"
)

// PartialSince is the oldest version with the commonly needed modules
const PartialSince = "3.9"

// Outcome summarizes a probe run
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailure Outcome = "failure"
)

// Prober runs probes inside an interpreter
type Prober struct {
	runner runner.Runner
	env    []string
	logger zerolog.Logger
}

// New creates a prober. env is the child environment, nil inherits.
func New(r runner.Runner, env []string) *Prober {
	return &Prober{
		runner: r,
		env:    env,
		logger: logging.GetLogger("probe"),
	}
}

func (p *Prober) python(ctx context.Context, interpreter string, args ...string) (runner.Result, error) {
	return p.runner.Run(ctx, runner.Command{Name: interpreter, Args: args, Env: p.env})
}

// Run executes every probe with `<interpreter> -c <code>`
func (p *Prober) Run(ctx context.Context, interpreter string, probes []Probe) []Result {
	results := make([]Result, 0, len(probes))
	for _, pr := range probes {
		res, err := p.python(ctx, interpreter, "-c", pr.Code)
		r := Result{Probe: pr, Available: err == nil}
		if err != nil {
			r.Output = strings.TrimSpace(res.Stderr)
			if r.Output == "" {
				r.Output = err.Error()
			}
		}
		p.logger.Debug().Str("probe", pr.Name).Bool("available", r.Available).Msg("Probe finished")
		results = append(results, r)
	}
	return results
}

// VersionInfoCode prints MAJOR.MINOR.MICRO of the running interpreter
const VersionInfoCode = "import sys; print('%d.%d.%d' % sys.version_info[:3])"

// VersionInfo returns the interpreter's own view of its version
func (p *Prober) VersionInfo(ctx context.Context, interpreter string) (*version.Version, error) {
	res, err := p.python(ctx, interpreter, "-c", VersionInfoCode)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInterpreterNotFound, "cannot run %s", interpreter)
	}
	return discovery.ParseVersion(res.Output())
}

// VirtualEnvCode prints True/False for a virtual environment, then sys.prefix
const VirtualEnvCode = "import sys; print(getattr(sys, 'real_prefix', None) is not None or sys.prefix != getattr(sys, 'base_prefix', sys.prefix)); print(sys.prefix)"

// InVirtualEnv reports whether interpreter runs inside a virtual
// environment, and its prefix
func (p *Prober) InVirtualEnv(ctx context.Context, interpreter string) (bool, string, error) {
	res, err := p.python(ctx, interpreter, "-c", VirtualEnvCode)
	if err != nil {
		return false, "", errors.Wrapf(err, errors.ErrInterpreterNotFound, "cannot run %s", interpreter)
	}
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	inVenv := strings.TrimSpace(lines[0]) == "True"
	prefix := ""
	if len(lines) > 1 {
		prefix = strings.TrimSpace(lines[1])
	}
	return inVenv, prefix, nil
}

// Classify places v relative to the target version
func Classify(v *version.Version, target string) Class {
	switch {
	case discovery.AtLeast(v, target):
		return ClassCurrent
	case discovery.AtLeast(v, PartialSince):
		return ClassPartial
	default:
		return ClassLegacy
	}
}

// Verdict turns probe results into an outcome: two or more passing
// probes is a success, one is partial, none is a failure
func Verdict(results []Result) Outcome {
	passed := Passed(results)
	switch {
	case passed >= 2:
		return OutcomeSuccess
	case passed == 1:
		return OutcomePartial
	default:
		return OutcomeFailure
	}
}

// Passed counts the available probes
func Passed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Available {
			n++
		}
	}
	return n
}

// PipResult is the outcome of the pip dry run
type PipResult struct {
	OK     bool   `json:"ok" yaml:"ok"`
	Stderr string `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Err    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// pipStderrLimit bounds the stderr shown for a failing pip
const pipStderrLimit = 100

// PipCheck runs `<interpreter> -m pip install --dry-run <pkg>` with timeout
func (p *Prober) PipCheck(ctx context.Context, interpreter, pkg string, timeout time.Duration) PipResult {
	res, err := p.runner.Run(ctx, runner.Command{
		Name:    interpreter,
		Args:    []string{"-m", "pip", "install", "--dry-run", pkg},
		Env:     p.env,
		Timeout: timeout,
	})
	if err == nil {
		return PipResult{OK: true}
	}
	out := PipResult{Stderr: environ.Truncate(res.Stderr, pipStderrLimit)}
	if res.Stderr == "" || errors.IsErrorCode(err, errors.ErrCommandTimeout) {
		out.Err = err.Error()
	}
	return out
}
