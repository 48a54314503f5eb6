package verify

import (
	"context"
	"testing"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared/sharedtest"
	"github.com/arthur-debert/pyswitch/pkg/probe"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const py312 = "/opt/python3.12/bin/python3.12"

func findItem(t *testing.T, rep *report.Report, label string) report.Item {
	t.Helper()
	for _, s := range rep.Sections {
		for _, it := range s.Items {
			if it.Label == label {
				return it
			}
		}
	}
	t.Fatalf("no item %q in report", label)
	return report.Item{}
}

func TestVerifyTargetActive(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	sharedtest.Interpreter(env.Runner, py312, "3.12.1", "/usr", false)

	d := sharedtest.Deps(env, "/opt/python3.12/bin:/usr/bin")
	d.Session.Env.Set("PY_PYTHON", "3.12")
	d.Session.SetExecutable(py312)

	res, err := Verify(context.Background(), Options{Deps: d})
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, py312, res.Interpreter)
	assert.Equal(t, "3.12.1", res.Version)
	assert.Equal(t, probe.ClassCurrent, res.Class)
	assert.Equal(t, probe.OutcomeSuccess, res.Verdict)
	require.NotNil(t, res.Pip)
	assert.True(t, res.Pip.OK)

	rep := res.Report
	assert.Equal(t, "Verifying Python 3.12", rep.Title)
	assert.Zero(t, rep.Count(style.StatusFail))
	assert.Equal(t, style.StatusOK, findItem(t, rep, "Python 3.12 appears in PATH").Status)
	assert.Equal(t, "Not set", findItem(t, rep, "VIRTUAL_ENV").Detail)
	assert.Equal(t, "3.12", findItem(t, rep, "PY_PYTHON").Detail)
	assert.Equal(t, "no", findItem(t, rep, "In virtual environment").Detail)
	assert.Equal(t, "available (Python 3.9+ feature)", findItem(t, rep, "zoneinfo module").Detail)

	require.NotNil(t, rep.Summary)
	assert.Equal(t, style.StatusOK, rep.Summary.Status)
	assert.Contains(t, rep.Summary.Label, "successfully switched to Python 3.12")
}

func TestVerifyLegacyInterpreter(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	sharedtest.Interpreter(env.Runner, "/usr/bin/python3", "3.6.9", "/usr", false)

	d := sharedtest.Deps(env, "/usr/bin:/usr/bin")
	d.Session.SetExecutable("/usr/bin/python3")

	res, err := Verify(context.Background(), Options{Deps: d, SkipPip: true})
	require.NoError(t, err)

	assert.False(t, res.OK)
	assert.Equal(t, probe.ClassLegacy, res.Class)
	assert.Equal(t, probe.OutcomePartial, res.Verdict, "only fcntl passes")
	assert.Nil(t, res.Pip)
	assert.False(t, env.Runner.Ran("/usr/bin/python3 -m pip"))

	rep := res.Report
	assert.Equal(t, style.StatusFail, findItem(t, rep, "Using Python older than 3.9").Status)
	assert.Equal(t, "not available (Python < 3.11)", findItem(t, rep, "tomllib module").Detail)
	assert.Equal(t, style.StatusWarn, findItem(t, rep, "Python 3.12 not obviously in PATH").Status)
	assert.Equal(t, "/usr/bin", findItem(t, rep, "Duplicate PATH entries").Detail)
	assert.Equal(t, style.StatusFail, rep.Summary.Status)
	assert.Contains(t, rep.Summary.Detail, "source /home/cdsw/switch_to_python312.sh")
}

func TestVerifyPartialVersion(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	py := "/usr/bin/python3.10"
	sharedtest.Interpreter(env.Runner, py, "3.10.4", "/home/cdsw/venvs/py310", true)

	d := sharedtest.Deps(env, "/home/cdsw/venvs/py310/bin:/usr/bin")
	res, err := Verify(context.Background(), Options{Deps: d, Interpreter: py})
	require.NoError(t, err)

	assert.False(t, res.OK)
	assert.Equal(t, probe.ClassPartial, res.Class)
	assert.Equal(t, style.StatusWarn, findItem(t, res.Report, "Using Python 3.9-3.11 (not 3.12)").Status)
	assert.Equal(t, "yes (/home/cdsw/venvs/py310)", findItem(t, res.Report, "In virtual environment").Detail)
	assert.Equal(t, "/home/cdsw/venvs/py310/bin", findItem(t, res.Report, "Virtual environment paths in PATH").Detail)
}

func TestVerifyBrokenInterpreter(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	d := sharedtest.Deps(env, "/usr/bin")

	res, err := Verify(context.Background(), Options{Deps: d, Interpreter: "/nowhere/python", SkipPip: true})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Empty(t, res.Version)
	assert.Equal(t, probe.OutcomeFailure, res.Verdict)
	assert.Equal(t, style.StatusFail, findItem(t, res.Report, "Python version").Status)
}

func TestPipSectionWarnsWithStderr(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Runner.OnFail(py312+" -m pip install --dry-run requests", "ERROR: network unreachable", 1)
	d := sharedtest.Deps(env, "/usr/bin")
	d.Prepare()

	rep := report.New("t")
	pip := PipSection(context.Background(), &d, rep, py312)
	assert.False(t, pip.OK)
	item := findItem(t, rep, "pip may have issues")
	assert.Equal(t, style.StatusWarn, item.Status)
	assert.Equal(t, "ERROR: network unreachable", item.Detail)
}

func TestInterpreter(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	d := sharedtest.Deps(env, "/usr/bin")
	d.Prepare()

	assert.Equal(t, "python3.12", Interpreter(&d, ""))
	d.Session.SetExecutable("/usr/bin/python3")
	assert.Equal(t, "/usr/bin/python3", Interpreter(&d, ""))
	assert.Equal(t, "/x/python", Interpreter(&d, "/x/python"))
}

func TestPreviousMinor(t *testing.T) {
	assert.Equal(t, "3.11", previousMinor("3.12"))
	assert.Equal(t, "3.0", previousMinor("3.0"))
	assert.Equal(t, "bogus", previousMinor("bogus"))
}
