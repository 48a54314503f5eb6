package probe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/pyswitch/pkg/discovery"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const py = "/usr/bin/python3.12"

func TestRun(t *testing.T) {
	fake := testutil.NewFakeRunner().
		On(py+" -c import zoneinfo", "").
		OnFail(py+" -c import tomllib", "ModuleNotFoundError: No module named 'tomllib'\n", 1).
		On(py+" -c import fcntl", "")

	results := New(fake, nil).Run(context.Background(), py, DefaultProbes)
	require.Len(t, results, 4)

	assert.True(t, results[0].Available)
	assert.False(t, results[1].Available)
	assert.Equal(t, "ModuleNotFoundError: No module named 'tomllib'", results[1].Output)
	assert.False(t, results[2].Available)
	assert.NotEmpty(t, results[2].Output)
	assert.True(t, results[3].Available)
}

func TestVersionInfo(t *testing.T) {
	fake := testutil.NewFakeRunner().On(py+" -c "+VersionInfoCode, "3.12.1\n")
	v, err := New(fake, nil).VersionInfo(context.Background(), py)
	require.NoError(t, err)
	assert.Equal(t, "3.12.1", v.String())

	_, err = New(fake, nil).VersionInfo(context.Background(), "/missing/python")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInterpreterNotFound))
}

func TestInVirtualEnv(t *testing.T) {
	fake := testutil.NewFakeRunner().
		On("/venv/bin/python -c "+VirtualEnvCode, "True\n/venv\n").
		On(py+" -c "+VirtualEnvCode, "False\n/usr\n")
	p := New(fake, nil)

	in, prefix, err := p.InVirtualEnv(context.Background(), "/venv/bin/python")
	require.NoError(t, err)
	assert.True(t, in)
	assert.Equal(t, "/venv", prefix)

	in, prefix, err = p.InVirtualEnv(context.Background(), py)
	require.NoError(t, err)
	assert.False(t, in)
	assert.Equal(t, "/usr", prefix)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		version string
		want    Class
	}{
		{"3.12.1", ClassCurrent},
		{"3.13.0", ClassCurrent},
		{"3.11.4", ClassPartial},
		{"3.9.0", ClassPartial},
		{"3.6.8", ClassLegacy},
		{"2.7.18", ClassLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(discovery.MustParseVersion(tt.version), "3.12"))
		})
	}
}

func TestVerdict(t *testing.T) {
	ok := Result{Available: true}
	ko := Result{}
	assert.Equal(t, OutcomeSuccess, Verdict([]Result{ok, ok, ko}))
	assert.Equal(t, OutcomeSuccess, Verdict([]Result{ok, ok, ok}))
	assert.Equal(t, OutcomePartial, Verdict([]Result{ok, ko, ko}))
	assert.Equal(t, OutcomeFailure, Verdict([]Result{ko, ko}))
	assert.Equal(t, OutcomeFailure, Verdict(nil))
	assert.Equal(t, 2, Passed([]Result{ok, ko, ok}))
}

func TestPipCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		fake := testutil.NewFakeRunner().On(py+" -m pip install --dry-run requests", "Would install requests")
		res := New(fake, nil).PipCheck(ctx, py, "requests", 30*time.Second)
		assert.True(t, res.OK)
		calls := fake.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, 30*time.Second, calls[0].Timeout)
	})

	t.Run("stderr truncated", func(t *testing.T) {
		long := strings.Repeat("x", 150)
		fake := testutil.NewFakeRunner().OnFail(py+" -m pip install --dry-run requests", long, 1)
		res := New(fake, nil).PipCheck(ctx, py, "requests", time.Second)
		assert.False(t, res.OK)
		assert.Equal(t, strings.Repeat("x", 100)+"...", res.Stderr)
		assert.Empty(t, res.Err)
	})

	t.Run("timeout", func(t *testing.T) {
		fake := testutil.NewFakeRunner().Respond(py+" -m pip install --dry-run requests", testutil.FakeResponse{
			Err: errors.New(errors.ErrCommandTimeout, "command timed out"),
		})
		res := New(fake, nil).PipCheck(ctx, py, "requests", time.Millisecond)
		assert.False(t, res.OK)
		assert.Contains(t, res.Err, "COMMAND_TIMEOUT")
	})
}
