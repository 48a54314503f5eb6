package shared

import (
	"testing"

	"github.com/arthur-debert/pyswitch/pkg/config"
	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/probe"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/session"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/switcher"
	"github.com/arthur-debert/pyswitch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Runner.Executable("python3", "/usr/bin/python3")

	d := Deps{Runner: env.Runner, FS: env.FS, Session: session.New(environ.FromSlice([]string{"PATH=/usr/bin"}))}
	d.Prepare()

	require.NotNil(t, d.Config)
	assert.Equal(t, "3.12", d.Config.Target.Version)
	assert.Equal(t, "/usr/bin/python3", d.Session.Executable)
}

func TestPrepareKeepsExecutable(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	s := session.New(environ.FromSlice(nil))
	s.SetExecutable("/opt/python3.12/bin/python3.12")

	d := Deps{Runner: env.Runner, FS: env.FS, Session: s}
	d.Prepare()
	assert.Equal(t, "/opt/python3.12/bin/python3.12", d.Session.Executable)
}

func TestConversions(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	cfg := config.Default()
	cfg.Env = map[string]string{"PIP_NO_CACHE_DIR": "1"}

	d := Deps{Config: cfg, Runner: env.Runner, FS: env.FS, Session: session.New(environ.FromSlice(nil))}
	d.Prepare()

	target := d.SwitchTarget()
	assert.Equal(t, "python3.12", target.Binary)
	assert.Equal(t, "/home/cdsw/local/bin", target.LocalBin)
	assert.Equal(t, "1", target.ExtraEnv["PIP_NO_CACHE_DIR"])

	vt := d.VenvTarget("")
	assert.Equal(t, "/home/cdsw/venvs/py312", vt.Path)
	assert.Equal(t, []string{"python3.6", "python2.7"}, vt.StripMarkers)
	assert.Equal(t, "/tmp/other", d.VenvTarget("/tmp/other").Path)

	assert.Equal(t, "312", d.ScriptTarget().NoDot())

	probes := d.Probes()
	require.Len(t, probes, 4)
	assert.Equal(t, probe.Probe{Name: "zoneinfo module", Code: "import zoneinfo", Since: "3.9"}, probes[0])

	d.Config.Verify.Probes = nil
	assert.Equal(t, probe.DefaultProbes, d.Probes())
}

func TestOutcome(t *testing.T) {
	sec := report.New("t").Section("Switch")
	Outcome(sec, switcher.Outcome{Steps: []string{"a", "b"}, Warnings: []string{"w"}})
	require.Len(t, sec.Items, 3)
	assert.Equal(t, style.StatusWarn, sec.Items[2].Status)
}
