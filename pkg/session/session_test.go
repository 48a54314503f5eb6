package session

import (
	"testing"

	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New(environ.FromSlice([]string{"PATH=/usr/bin", "PYTHONPATH=/opt/lib/python3.6/site-packages:/srv/lib"}))
	assert.Equal(t, []string{"/opt/lib/python3.6/site-packages", "/srv/lib"}, s.SysPath)
	assert.Empty(t, s.Executable)

	assert.NotNil(t, New(nil).Env)
}

func TestSetExecutable(t *testing.T) {
	s := New(environ.FromSlice(nil))
	assert.Equal(t, "", s.SetExecutable("/usr/bin/python3.6"))
	assert.Equal(t, "/usr/bin/python3.6", s.SetExecutable("/usr/bin/python3.12"))
	assert.Equal(t, "/usr/bin/python3.12", s.Executable)
}

func TestSysPath(t *testing.T) {
	s := New(environ.FromSlice([]string{"PYTHONPATH=/usr/lib/python3.6/site-packages:/srv/lib:/usr/lib/python2.7/dist"}))

	removed := s.PruneSysPath("python3.6", "python2.7")
	assert.Equal(t, []string{"/usr/lib/python3.6/site-packages", "/usr/lib/python2.7/dist"}, removed)
	assert.Equal(t, []string{"/srv/lib"}, s.SysPath)

	site := "/home/cdsw/venvs/py312/lib/python3.12/site-packages"
	assert.True(t, s.InsertSysPath(site))
	assert.False(t, s.InsertSysPath(site))
	assert.Equal(t, []string{site, "/srv/lib"}, s.SysPath)
	assert.Equal(t, []string{site}, s.Inserted())
}

func TestCommandEnv(t *testing.T) {
	s := New(environ.FromSlice([]string{"PATH=/usr/bin", "PYTHONPATH=/srv/lib"}))

	assert.Equal(t, []string{"PATH=/usr/bin", "PYTHONPATH=/srv/lib"}, s.CommandEnv())

	s.InsertSysPath("/venv/site-packages")
	env := s.CommandEnv()
	assert.Contains(t, env, "PYTHONPATH=/venv/site-packages:/srv/lib")

	// the session environment itself is untouched
	assert.Equal(t, "/srv/lib", s.Env.Get("PYTHONPATH"))

	exports := s.ExportEnv()
	assert.Equal(t, "/venv/site-packages:/srv/lib", exports.Get("PYTHONPATH"))
}

func TestPruneDropsInserted(t *testing.T) {
	s := New(environ.FromSlice(nil))
	s.InsertSysPath("/old/python3.6/site-packages")
	s.PruneSysPath("python3.6")
	assert.Empty(t, s.Inserted())
	assert.NotContains(t, s.CommandEnv(), "PYTHONPATH=/old/python3.6/site-packages")
}

func TestPruneDropsInheritedPythonPath(t *testing.T) {
	s := New(environ.FromSlice([]string{
		"PATH=/usr/bin",
		"PYTHONPATH=/usr/lib/python3.6/site-packages:/srv/lib",
	}))
	s.PruneSysPath("python3.6")
	site := "/venv/lib/python3.12/site-packages"
	s.InsertSysPath(site)

	assert.Equal(t, []string{site, "/srv/lib"}, s.SysPath)
	assert.Contains(t, s.CommandEnv(), "PYTHONPATH="+site+":/srv/lib")
	assert.Equal(t, site+":/srv/lib", s.ExportEnv().Get("PYTHONPATH"))
	assert.NotContains(t, s.ExportEnv().Exports(environ.ShellBash), "python3.6")
}

func TestPruneOnlyUnsetsPythonPath(t *testing.T) {
	s := New(environ.FromSlice([]string{"PYTHONPATH=/usr/lib/python3.6/site-packages"}))
	s.PruneSysPath("python3.6")

	assert.NotContains(t, s.CommandEnv(), "PYTHONPATH=/usr/lib/python3.6/site-packages")
	assert.Contains(t, s.ExportEnv().Exports(environ.ShellBash), "unset PYTHONPATH")
}

func TestSnapshot(t *testing.T) {
	s := New(environ.FromSlice([]string{"PATH=/usr/bin"}))
	before := s.Snapshot()

	s.SetExecutable("/venv/bin/python")
	s.Env.Set("VIRTUAL_ENV", "/venv")
	s.Env.Set("PY_PYTHON", "3.12")
	s.Env.PrependPath("/venv/bin")
	s.InsertSysPath("/venv/site")
	after := s.Snapshot()

	assert.Equal(t, "/usr/bin", before.Path)
	assert.Empty(t, before.Executable)
	require.Equal(t, "/venv/bin:/usr/bin", after.Path)
	assert.Equal(t, "/venv/bin/python", after.Executable)
	assert.Equal(t, "/venv", after.VirtualEnv)
	assert.Equal(t, "3.12", after.PyPython)
	assert.Equal(t, []string{"/venv/site"}, after.SysPath)
}

func TestClone(t *testing.T) {
	s := New(environ.FromSlice([]string{"PATH=/usr/bin"}))
	s.InsertSysPath("/a")
	c := s.Clone()
	c.InsertSysPath("/b")
	c.Env.PrependPath("/venv/bin")
	c.SetExecutable("/venv/bin/python")

	assert.Equal(t, []string{"/a"}, s.SysPath)
	assert.Equal(t, "/usr/bin", s.Env.Get("PATH"))
	assert.Empty(t, s.Executable)
	assert.Equal(t, []string{"/b", "/a"}, c.Inserted())
}
