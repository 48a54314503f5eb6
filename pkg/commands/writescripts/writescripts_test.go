package writescripts

import (
	"context"
	"testing"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared/sharedtest"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/scripts"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAll(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	res, err := Write(context.Background(), Options{Deps: sharedtest.Deps(env, "/usr/bin")})
	require.NoError(t, err)
	assert.True(t, res.OK)
	require.Len(t, res.Written, 4)

	assert.Equal(t, "/home/cdsw/switch_to_python312.sh", res.Written[scripts.KindSwitch])
	assert.Equal(t, "/home/cdsw/.bashrc_cdsw_python312", res.Written[scripts.KindAliases])
	assert.Equal(t, "/home/cdsw/activate_py312.sh", res.Written[scripts.KindActivation])
	assert.Equal(t, "/home/cdsw/cdsw_python312_helper.py", res.Written[scripts.KindHelper])

	activation, err := env.FS.ReadFile("/home/cdsw/activate_py312.sh")
	require.NoError(t, err)
	assert.Contains(t, string(activation), "/home/cdsw/venvs/py312")

	info, err := env.FS.Stat("/home/cdsw/switch_to_python312.sh")
	require.NoError(t, err)
	assert.Equal(t, 0755, int(info.Mode().Perm()))

	items := res.Report.Sections[0].Items
	require.Len(t, items, 8)
	assert.Equal(t, "source /home/cdsw/switch_to_python312.sh", items[1].Detail)
	assert.Equal(t, "from cdsw_python312_helper import switch_to_python312; switch_to_python312()", items[7].Detail)
}

func TestWriteSelectedKinds(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	res, err := Write(context.Background(), Options{
		Deps:        sharedtest.Deps(env, "/usr/bin"),
		Kinds:       []scripts.Kind{scripts.KindAliases, scripts.KindActivation},
		Interpreter: "/opt/python3.12/bin/python3.12",
		VenvPath:    "/data/venv",
	})
	require.NoError(t, err)
	require.Len(t, res.Written, 2)

	aliases, err := env.FS.ReadFile(res.Written[scripts.KindAliases])
	require.NoError(t, err)
	assert.Contains(t, string(aliases), "/opt/python3.12/bin/python3.12")

	activation, err := env.FS.ReadFile(res.Written[scripts.KindActivation])
	require.NoError(t, err)
	assert.Contains(t, string(activation), "/data/venv")
	assert.False(t, fileExists(env, "/home/cdsw/switch_to_python312.sh"))
}

func TestWriteDryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	d := sharedtest.Deps(env, "/usr/bin")
	d.DryRun = true

	res, err := Write(context.Background(), Options{Deps: d})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Len(t, res.Written, 4)
	assert.False(t, fileExists(env, "/home/cdsw/switch_to_python312.sh"))
}

func TestWriteFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	// a file where the parent directory should be
	env.WriteFile(env.Path("local"), "not a dir")
	d := sharedtest.Deps(env, "/usr/bin")
	d.Prepare()
	d.Config.Scripts.Switch = "~/local/bin/switch.sh"

	res, err := Write(context.Background(), Options{Deps: d, Kinds: []scripts.Kind{scripts.KindSwitch}})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Empty(t, res.Written)
	assert.Equal(t, style.StatusFail, res.Report.Sections[0].Items[0].Status)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("helper")
	require.NoError(t, err)
	assert.Equal(t, scripts.KindHelper, k)

	_, err = ParseKind("profile")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func fileExists(env *testutil.TestEnvironment, path string) bool {
	_, err := env.FS.Stat(path)
	return err == nil
}
