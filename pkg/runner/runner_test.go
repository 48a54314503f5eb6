package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	assert.Equal(t, "which python3.12", Command{Name: "which", Args: []string{"python3.12"}}.String())
	assert.Equal(t, "python3", Command{Name: "python3"}.String())
}

func TestResultOutput(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"stdout wins", Result{Stdout: "Python 3.12.1\n", Stderr: "noise"}, "Python 3.12.1"},
		{"stderr fallback", Result{Stderr: "Python 2.7.18\n"}, "Python 2.7.18"},
		{"empty", Result{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Output())
		})
	}
}

func TestExecRunnerRun(t *testing.T) {
	r := NewExecRunner()
	ctx := context.Background()

	t.Run("captures stdout and stderr separately", func(t *testing.T) {
		res, err := r.Run(ctx, Command{Name: "echo out; echo err >&2", Shell: true})
		require.NoError(t, err)
		assert.Equal(t, "out\n", res.Stdout)
		assert.Equal(t, "err\n", res.Stderr)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("non-zero exit keeps result", func(t *testing.T) {
		res, err := r.Run(ctx, Command{Name: "echo broken >&2; exit 3", Shell: true})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "broken\n", errors.Stderr(err))
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "pyswitch-definitely-missing-binary"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "sleep 5", Shell: true, Timeout: 50 * time.Millisecond})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrCommandTimeout))
	})

	t.Run("env and dir", func(t *testing.T) {
		dir := t.TempDir()
		res, err := r.Run(ctx, Command{
			Name:  "echo $PYSWITCH_TEST_VAR; pwd",
			Shell: true,
			Env:   append(os.Environ(), "PYSWITCH_TEST_VAR=hello"),
			Dir:   dir,
		})
		require.NoError(t, err)
		resolved, _ := filepath.EvalSymlinks(dir)
		assert.Contains(t, res.Stdout, "hello\n")
		assert.Contains(t, res.Stdout, resolved)
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "true", Dir: "/nonexistent/pyswitch"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := r.Run(ctx, Command{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestExecRunnerLookPath(t *testing.T) {
	r := NewExecRunner()
	path, err := r.LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = r.LookPath("pyswitch-definitely-missing-binary")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestDryRun(t *testing.T) {
	d := NewDryRun(NewExecRunner())
	res, err := d.Run(context.Background(), Command{Name: "apt-get", Args: []string{"update"}})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	_, _ = d.Run(context.Background(), Command{Name: "rm -rf /tmp/nothing", Shell: true})
	require.Len(t, d.Planned, 2)
	assert.Equal(t, "apt-get update\nrm -rf /tmp/nothing\n", d.Describe())
}
