// Package installer installs the target interpreter with the system
// package manager: update, build dependencies, deadsnakes repository,
// update again, interpreter packages.
package installer

import (
	"context"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/runner"
	"github.com/rs/zerolog"
)

// Options configures the install flow
type Options struct {
	Binary         string
	Manager        string
	RepositoryTool string
	Sudo           bool
	Repository     string
	BuildDeps      []string
	Packages       []string
	// DryRun plans the steps without running them
	DryRun bool
}

// Step is one command of the install plan
type Step struct {
	Description string         `json:"description" yaml:"description"`
	Command     runner.Command `json:"-" yaml:"-"`
	CommandLine string         `json:"command" yaml:"command"`
}

// Installer ensures the interpreter is present
type Installer struct {
	runner runner.Runner
	opts   Options
	logger zerolog.Logger
}

// New creates an installer
func New(r runner.Runner, opts Options) *Installer {
	if opts.Manager == "" {
		opts.Manager = "apt-get"
	}
	if opts.RepositoryTool == "" {
		opts.RepositoryTool = "add-apt-repository"
	}
	return &Installer{
		runner: r,
		opts:   opts,
		logger: logging.GetLogger("installer"),
	}
}

// Installed runs `<binary> --version` and returns its output
func (i *Installer) Installed(ctx context.Context) (string, bool) {
	res, err := i.runner.Run(ctx, runner.Command{Name: i.opts.Binary, Args: []string{"--version"}})
	if err != nil {
		return "", false
	}
	return res.Output(), true
}

// Plan returns the ordered install steps
func (i *Installer) Plan() []Step {
	var steps []Step
	add := func(desc, name string, args ...string) {
		cmd := i.command(name, args...)
		steps = append(steps, Step{Description: desc, Command: cmd, CommandLine: cmd.String()})
	}

	add("Updating package lists", i.opts.Manager, "update")
	if len(i.opts.BuildDeps) > 0 {
		add("Installing build dependencies", i.opts.Manager, append([]string{"install", "-y"}, i.opts.BuildDeps...)...)
	}
	if i.opts.Repository != "" {
		add("Adding repository "+i.opts.Repository, i.opts.RepositoryTool, "-y", i.opts.Repository)
		add("Updating package lists again", i.opts.Manager, "update")
	}
	add("Installing "+strings.Join(i.opts.Packages, " "), i.opts.Manager, append([]string{"install", "-y"}, i.opts.Packages...)...)
	return steps
}

func (i *Installer) command(name string, args ...string) runner.Command {
	if i.opts.Sudo {
		return runner.Command{Name: "sudo", Args: append([]string{name}, args...)}
	}
	return runner.Command{Name: name, Args: args}
}

// Progress receives each step before it runs
type Progress func(step Step)

// EnsureInstalled installs the interpreter unless it is already present.
// It stops at the first failing step.
func (i *Installer) EnsureInstalled(ctx context.Context, progress Progress) (bool, error) {
	if ver, ok := i.Installed(ctx); ok {
		i.logger.Info().Str("version", ver).Msg("Interpreter already installed")
		return true, nil
	}

	done := logging.LogOperationStart(i.logger, "install "+i.opts.Binary)
	defer done()

	exec := i.runner
	if i.opts.DryRun {
		exec = runner.NewDryRun(i.runner)
	}

	for _, step := range i.Plan() {
		if progress != nil {
			progress(step)
		}
		i.logger.Info().Str("step", step.Description).Str("command", step.CommandLine).Msg("Running install step")
		if _, err := exec.Run(ctx, step.Command); err != nil {
			return false, errors.Wrapf(err, errors.ErrInstallFailed, "%s failed", step.Description).
				WithDetails(map[string]interface{}{
					"step":   step.Description,
					"stderr": errors.Stderr(err),
				})
		}
	}
	return false, nil
}
