package installer

import (
	"context"
	"testing"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/runner"
	"github.com/arthur-debert/pyswitch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options() Options {
	return Options{
		Binary:     "python3.12",
		Sudo:       true,
		Repository: "ppa:deadsnakes/ppa",
		BuildDeps:  []string{"build-essential", "libssl-dev"},
		Packages:   []string{"python3.12", "python3.12-dev", "python3.12-venv", "python3.12-distutils"},
	}
}

func TestPlan(t *testing.T) {
	steps := New(nil, options()).Plan()

	var lines []string
	for _, s := range steps {
		lines = append(lines, s.CommandLine)
	}
	assert.Equal(t, []string{
		"sudo apt-get update",
		"sudo apt-get install -y build-essential libssl-dev",
		"sudo add-apt-repository -y ppa:deadsnakes/ppa",
		"sudo apt-get update",
		"sudo apt-get install -y python3.12 python3.12-dev python3.12-venv python3.12-distutils",
	}, lines)
}

func TestPlanWithoutSudo(t *testing.T) {
	opts := options()
	opts.Sudo = false
	opts.Repository = ""
	opts.BuildDeps = nil
	steps := New(nil, opts).Plan()

	require.Len(t, steps, 2)
	assert.Equal(t, "apt-get update", steps[0].CommandLine)
	assert.Equal(t, "apt-get", steps[1].Command.Name)
}

func TestEnsureInstalled(t *testing.T) {
	ctx := context.Background()

	t.Run("already installed", func(t *testing.T) {
		fake := testutil.NewFakeRunner().On("python3.12 --version", "Python 3.12.1\n")
		already, err := New(fake, options()).EnsureInstalled(ctx, nil)
		require.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, []string{"python3.12 --version"}, fake.CallLines())
	})

	t.Run("installs all steps", func(t *testing.T) {
		fake := testutil.NewFakeRunner()
		inst := New(fake, options())
		for _, s := range inst.Plan() {
			fake.On(s.CommandLine, "")
		}

		var seen []string
		already, err := inst.EnsureInstalled(ctx, func(s Step) { seen = append(seen, s.Description) })
		require.NoError(t, err)
		assert.False(t, already)
		assert.Len(t, seen, 5)
		assert.Len(t, fake.CallLines(), 6)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		fake := testutil.NewFakeRunner().
			On("sudo apt-get update", "").
			OnFail("sudo apt-get install -y build-essential libssl-dev", "E: Unable to locate package", 100)

		_, err := New(fake, options()).EnsureInstalled(ctx, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInstallFailed))
		assert.Equal(t, "E: Unable to locate package", errors.Stderr(err))
		assert.Equal(t, "Installing build dependencies", errors.GetErrorDetails(err)["step"])
		assert.False(t, fake.Ran("sudo add-apt-repository"))
	})

	t.Run("dry run", func(t *testing.T) {
		fake := testutil.NewFakeRunner()
		opts := options()
		opts.DryRun = true

		var planned []runner.Command
		already, err := New(fake, opts).EnsureInstalled(ctx, func(s Step) { planned = append(planned, s.Command) })
		require.NoError(t, err)
		assert.False(t, already)
		assert.Len(t, planned, 5)
		assert.Equal(t, []string{"python3.12 --version"}, fake.CallLines())
	})
}
