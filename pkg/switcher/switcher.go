package switcher

import (
	"context"
	"fmt"

	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/session"
)

// Environment variables set by the switching methods
const (
	EnvPyPython      = "PY_PYTHON"
	EnvPythonVersion = "PYTHON_VERSION"
	EnvVirtualEnv    = "VIRTUAL_ENV"
)

// Target is what the methods switch to
type Target struct {
	Version  string
	Binary   string
	LocalBin string
	// ExtraEnv is exported by EnvMethod in addition to the version variables
	ExtraEnv map[string]string
}

// Outcome describes a successful switch
type Outcome struct {
	Method      string                `json:"method" yaml:"method"`
	Interpreter discovery.Interpreter `json:"interpreter" yaml:"interpreter"`
	Steps       []string              `json:"steps" yaml:"steps"`
	Warnings    []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (o *Outcome) step(format string, args ...interface{}) {
	o.Steps = append(o.Steps, fmt.Sprintf(format, args...))
}

func (o *Outcome) warn(format string, args ...interface{}) {
	o.Warnings = append(o.Warnings, fmt.Sprintf(format, args...))
}

// Method is one way of switching a session
type Method interface {
	Name() string
	Switch(ctx context.Context, s *session.Session) (Outcome, error)
}

// Attempt records a method that was tried
type Attempt struct {
	Method string `json:"method" yaml:"method"`
	Err    error  `json:"-" yaml:"-"`
}

// Chain runs methods in order and stops at the first success. The
// session is only modified by the successful method.
func Chain(ctx context.Context, s *session.Session, methods ...Method) (Outcome, []Attempt, error) {
	logger := logging.GetLogger("switcher")
	var attempts []Attempt
	var lastErr error

	for _, m := range methods {
		trial := s.Clone()

		outcome, err := m.Switch(ctx, trial)
		attempts = append(attempts, Attempt{Method: m.Name(), Err: err})
		if err != nil {
			logger.Info().Err(err).Str("method", m.Name()).Msg("Switch method failed, trying next")
			lastErr = err
			continue
		}

		*s = *trial
		logger.Info().Str("method", m.Name()).Str("executable", s.Executable).Msg("Switched interpreter")
		return outcome, attempts, nil
	}

	if lastErr == nil {
		lastErr = errors.New(errors.ErrInvalidInput, "no switch methods given")
	}
	return Outcome{}, attempts, lastErr
}
