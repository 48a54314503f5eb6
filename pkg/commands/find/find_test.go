package find

import (
	"context"
	"testing"

	"github.com/arthur-debert/pyswitch/pkg/commands/shared"
	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/session"
	"github.com/arthur-debert/pyswitch/pkg/style"
	"github.com/arthur-debert/pyswitch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deps(env *testutil.TestEnvironment) shared.Deps {
	return shared.Deps{
		Runner:  env.Runner,
		FS:      env.FS,
		Session: session.New(environ.FromSlice([]string{"PATH=/usr/bin"})),
	}
}

func TestFind(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Runner.
		Executable("python3.12", "/usr/bin/python3.12").
		Executable("python3", "/usr/bin/python3").
		On("python3.12 --version", "Python 3.12.1\n").
		On("python3 --version", "Python 3.6.9\n")

	res, err := Find(context.Background(), Options{Deps: deps(env)})
	require.NoError(t, err)
	assert.True(t, res.OK)

	require.Len(t, res.Installations, 3)
	assert.False(t, res.Installations[0].Found, "python3.6 is not scripted")
	assert.Equal(t, "/usr/bin/python3.12", res.Installations[1].Location)
	assert.Equal(t, "Python 3.12.1", res.Installations[1].Version)
	assert.Equal(t, "default", res.Installations[2].Label)

	items := res.Report.Sections[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, style.StatusWarn, items[0].Status)
	assert.Equal(t, "Python 3.6", items[0].Label)
	assert.Equal(t, style.StatusOK, items[1].Status)
	assert.Equal(t, "/usr/bin/python3.12 (Python 3.12.1)", items[1].Detail)
	assert.Equal(t, "default python3", items[2].Label)
}

func TestFindTargetMissing(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	res, err := Find(context.Background(), Options{Deps: deps(env), Versions: []string{"3.12"}})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Len(t, res.Installations, 2)
	assert.Equal(t, 2, res.Report.Count(style.StatusWarn))
}
