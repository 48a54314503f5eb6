package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pyswitch/pkg/filesystem"
	"github.com/arthur-debert/pyswitch/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory filesystem
	EnvIsolated                  // Real filesystem in a temp directory
)

// TestEnvironment bundles an isolated home, filesystem and fake runner.
type TestEnvironment struct {
	HomeDir string
	FS      types.FS
	Runner  *FakeRunner
	Type    EnvType

	t *testing.T
}

// NewTestEnvironment creates a test environment. HOME and the XDG roots
// point inside the environment for the duration of the test.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:      t,
		Type:   envType,
		Runner: NewFakeRunner(),
	}

	switch envType {
	case EnvMemoryOnly:
		env.HomeDir = "/home/cdsw"
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
		require.NoError(t, env.FS.MkdirAll(env.HomeDir, 0755))
		// logging still writes to a real state dir
		stateDir := t.TempDir()
		t.Setenv("XDG_STATE_HOME", stateDir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(stateDir, "config"))
	case EnvIsolated:
		env.HomeDir = t.TempDir()
		env.FS = filesystem.NewOS()
		t.Setenv("XDG_STATE_HOME", filepath.Join(env.HomeDir, ".local", "state"))
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.HomeDir, ".config"))
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("PYSWITCH_CONFIG", "")
	t.Setenv("PYSWITCH_CONFIG_DIR", "")
	t.Setenv("PYSWITCH_STATE_DIR", "")
	return env
}

// Path joins elements onto the environment's home directory
func (e *TestEnvironment) Path(elem ...string) string {
	return filepath.Join(append([]string{e.HomeDir}, elem...)...)
}

// WriteFile creates a file and its parent directories
func (e *TestEnvironment) WriteFile(path, content string) string {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, e.FS.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteExecutable creates an executable file, typically a fake interpreter
func (e *TestEnvironment) WriteExecutable(path string) string {
	e.t.Helper()
	e.WriteFile(path, "#!/bin/sh\n")
	require.NoError(e.t, e.FS.Chmod(path, 0755))
	return path
}

// Mkdir creates a directory tree
func (e *TestEnvironment) Mkdir(path string) string {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(path, 0755))
	return path
}

// SetEnv sets several environment variables for the test duration
func SetEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}
