package discovery

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/runner"
	"github.com/arthur-debert/pyswitch/pkg/types"
	version "github.com/hashicorp/go-version"
	"github.com/rs/zerolog"
)

// Source tells how an interpreter was found
type Source string

const (
	SourceWhich     Source = "which"
	SourceCandidate Source = "candidate"
)

// DefaultCommand is the generic interpreter command
const DefaultCommand = "python3"

// Interpreter is a resolved interpreter binary
type Interpreter struct {
	Command string `json:"command" yaml:"command"`
	Path    string `json:"path" yaml:"path"`
	Source  Source `json:"source" yaml:"source"`
}

// Dir returns the directory holding the interpreter
func (i Interpreter) Dir() string {
	return filepath.Dir(i.Path)
}

// Installation is one entry of an installations listing
type Installation struct {
	Label    string `json:"label" yaml:"label"`
	Command  string `json:"command" yaml:"command"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Found    bool   `json:"found" yaml:"found"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Locator finds interpreters
type Locator struct {
	runner     runner.Runner
	fs         types.FS
	candidates []string
	logger     zerolog.Logger
}

// NewLocator creates a locator. candidates are full interpreter paths
// checked in order when `which` fails.
func NewLocator(r runner.Runner, fsys types.FS, candidates []string) *Locator {
	return &Locator{
		runner:     r,
		fs:         fsys,
		candidates: candidates,
		logger:     logging.GetLogger("discovery"),
	}
}

// Which returns the location of binary on PATH
func (l *Locator) Which(ctx context.Context, binary string) (string, error) {
	res, err := l.runner.Run(ctx, runner.Command{Name: "which", Args: []string{binary}})
	path := strings.TrimSpace(res.Stdout)
	if err == nil && path == "" {
		err = errors.New(errors.ErrCommandFailed, "which printed nothing")
	}
	if err != nil {
		l.logger.Debug().Err(err).Str("binary", binary).Msg("which failed")
		return "", errors.Wrapf(err, errors.ErrInterpreterNotFound, "could not find %s", binary)
	}
	// which may print several lines on some systems
	if i := strings.IndexByte(path, '\n'); i >= 0 {
		path = strings.TrimSpace(path[:i])
	}
	return path, nil
}

// Version returns the trimmed output of `<command> --version`
func (l *Locator) Version(ctx context.Context, command string) (string, error) {
	res, err := l.runner.Run(ctx, runner.Command{Name: command, Args: []string{"--version"}})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInterpreterNotFound, "%s --version failed", command)
	}
	return res.Output(), nil
}

// Find resolves binary with `which`, then the configured candidates
func (l *Locator) Find(ctx context.Context, binary string) (Interpreter, error) {
	path, whichErr := l.Which(ctx, binary)
	if whichErr == nil {
		l.logger.Info().Str("binary", binary).Str("path", path).Msg("Found interpreter on PATH")
		return Interpreter{Command: binary, Path: path, Source: SourceWhich}, nil
	}

	for _, candidate := range l.candidates {
		info, err := l.fs.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		l.logger.Info().Str("binary", binary).Str("path", candidate).Msg("Found interpreter at candidate path")
		return Interpreter{Command: binary, Path: candidate, Source: SourceCandidate}, nil
	}

	return Interpreter{}, errors.Wrapf(whichErr, errors.ErrInterpreterNotFound,
		"%s not found on PATH or in %d candidate locations", binary, len(l.candidates)).
		WithDetail("candidates", l.candidates)
}

// FindInstallations lists python<v> for each version plus the default
// python3. Missing interpreters are included with Found false.
func (l *Locator) FindInstallations(ctx context.Context, versions []string) []Installation {
	var installs []Installation
	for _, v := range versions {
		installs = append(installs, l.probeInstallation(ctx, v, "python"+v))
	}
	return append(installs, l.probeInstallation(ctx, "default", DefaultCommand))
}

func (l *Locator) probeInstallation(ctx context.Context, label, command string) Installation {
	inst := Installation{Label: label, Command: command}

	ver, err := l.Version(ctx, command)
	if err != nil {
		inst.Error = err.Error()
		return inst
	}
	location, err := l.Which(ctx, command)
	if err != nil {
		inst.Error = err.Error()
		return inst
	}

	inst.Version = ver
	inst.Location = location
	inst.Found = true
	return inst
}

var versionRegexp = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the version from text like "Python 3.12.1"
func ParseVersion(text string) (*version.Version, error) {
	match := versionRegexp.FindString(text)
	if match == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "no version in %q", text)
	}
	v, err := version.NewVersion(match)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid version %q", match)
	}
	return v, nil
}

// MustParseVersion is ParseVersion for constants
func MustParseVersion(text string) *version.Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// AtLeast reports whether v satisfies ">= min"
func AtLeast(v *version.Version, min string) bool {
	if v == nil {
		return false
	}
	c, err := version.NewConstraint(">= " + min)
	if err != nil {
		return false
	}
	return c.Check(v)
}
