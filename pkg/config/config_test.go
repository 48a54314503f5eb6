package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("PYSWITCH_CONFIG", "")
	t.Setenv("PYSWITCH_CONFIG_DIR", "")
	t.Setenv("PYSWITCH_STATE_DIR", "")
	return home
}

func TestDefault(t *testing.T) {
	home := isolate(t)
	cfg := Default()

	assert.Equal(t, "3.12", cfg.Target.Version)
	assert.Equal(t, "python3.12", cfg.Target.Binary())
	assert.Equal(t, "312", cfg.Target.NoDot())
	assert.Equal(t, []string{"3.6"}, cfg.Target.Legacy)
	assert.Equal(t, []string{"pip", "setuptools", "wheel"}, cfg.Venv.Upgrade)
	assert.Contains(t, cfg.Venv.Packages, "scikit-learn")
	assert.Equal(t, []string{"python3.6", "python2.7"}, cfg.Venv.StripMarkers)
	assert.True(t, cfg.Install.Sudo)
	assert.Equal(t, "ppa:deadsnakes/ppa", cfg.Install.Repository)
	assert.Len(t, cfg.Install.BuildDeps, 16)
	assert.Equal(t, 30*time.Second, cfg.Verify.PipTimeout)
	assert.Equal(t, "requests", cfg.Verify.PipPackage)
	assert.Equal(t, 200, cfg.Verify.PathPreview)
	require.Len(t, cfg.Verify.Probes, 4)
	assert.Equal(t, "import zoneinfo", cfg.Verify.Probes[0].Code)
	assert.Equal(t, "3.9", cfg.Verify.Probes[0].Since)
	assert.Empty(t, cfg.Verify.Probes[3].Since)
	assert.NotNil(t, cfg.Env)

	assert.Equal(t, filepath.Join(home, "venvs", "py312"), cfg.VenvPath())

	scripts := cfg.ScriptPaths()
	assert.Equal(t, filepath.Join(home, "switch_to_python312.sh"), scripts.Switch)
	assert.Equal(t, filepath.Join(home, ".bashrc_cdsw_python312"), scripts.Aliases)
	assert.Equal(t, filepath.Join(home, "activate_py312.sh"), scripts.Activation)
	assert.Equal(t, filepath.Join(home, "cdsw_python312_helper.py"), scripts.Helper)
	assert.Equal(t, filepath.Join(home, "local", "bin"), scripts.LocalBin)
}

func TestDerivedValues(t *testing.T) {
	isolate(t)
	cfg := Default()

	assert.Equal(t, []string{"python3.12", "python3.12-dev", "python3.12-venv", "python3.12-distutils"},
		cfg.InterpreterPackages())

	cfg.Install.Packages = []string{"python3.12-full"}
	assert.Equal(t, []string{"python3.12-full"}, cfg.InterpreterPackages())

	candidates := cfg.Target.Candidates()
	assert.Equal(t, "/usr/bin/python3.12", candidates[0])
	assert.Equal(t, "/usr/local/bin/python3.12", candidates[1])
	assert.Equal(t, "/opt/python3.12/bin/python3.12", candidates[2])
}

func TestLoadLayers(t *testing.T) {
	home := isolate(t)

	userFile := filepath.Join(home, ".config", "pyswitch", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userFile), 0755))
	require.NoError(t, os.WriteFile(userFile, []byte(`
[target]
version = "3.11"

[venv]
path = "~/envs/py{nodot}"

[env]
PIP_INDEX_URL = "https://mirror.example/simple"
`), 0644))

	t.Run("user file", func(t *testing.T) {
		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "3.11", cfg.Target.Version)
		assert.Equal(t, filepath.Join(home, "envs", "py311"), cfg.VenvPath())
		assert.Equal(t, "https://mirror.example/simple", cfg.Env["PIP_INDEX_URL"])
		// untouched sections keep defaults
		assert.Equal(t, "ppa:deadsnakes/ppa", cfg.Install.Repository)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PYSWITCH_TARGET_VERSION", "3.13")
		t.Setenv("PYSWITCH_VERIFY_PIP_TIMEOUT", "5s")
		t.Setenv("PYSWITCH_TARGET_LEGACY", "3.6,3.8")
		t.Setenv("PYSWITCH_INSTALL_SUDO", "false")
		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "3.13", cfg.Target.Version)
		assert.Equal(t, 5*time.Second, cfg.Verify.PipTimeout)
		assert.Equal(t, []string{"3.6", "3.8"}, cfg.Target.Legacy)
		assert.False(t, cfg.Install.Sudo)
	})

	t.Run("env section keeps variable case", func(t *testing.T) {
		t.Setenv("PYSWITCH_ENV_PIP_TRUSTED_HOST", "mirror.example")
		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "mirror.example", cfg.Env["PIP_TRUSTED_HOST"])
		assert.NotContains(t, cfg.Env, "pip_trusted_host")
		assert.Equal(t, "https://mirror.example/simple", cfg.Env["PIP_INDEX_URL"])
	})

	t.Run("overrides win", func(t *testing.T) {
		t.Setenv("PYSWITCH_TARGET_VERSION", "3.13")
		cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
			"target.version": "3.10",
			"venv.path":      "/srv/venv",
		}})
		require.NoError(t, err)
		assert.Equal(t, "3.10", cfg.Target.Version)
		assert.Equal(t, "/srv/venv", cfg.VenvPath())
	})

	t.Run("skip layers", func(t *testing.T) {
		t.Setenv("PYSWITCH_TARGET_VERSION", "3.13")
		cfg, err := Load(LoadOptions{SkipUserFile: true, SkipEnv: true})
		require.NoError(t, err)
		assert.Equal(t, "3.12", cfg.Target.Version)
	})
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PYSWITCH_TARGET_VERSION", "target.version"},
		{"PYSWITCH_VERIFY_PIP_TIMEOUT", "verify.pip_timeout"},
		{"PYSWITCH_ENV_PIP_INDEX_URL", "env.PIP_INDEX_URL"},
		{"PYSWITCH_ENV_Mixed_Case", "env.Mixed_Case"},
		{"PYSWITCH_VENV", "venv"},
		{"PYSWITCH_CONFIG_DIR", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestLoadErrors(t *testing.T) {
	home := isolate(t)

	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(home, "missing.toml")})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(home, "bad.toml")
		require.NoError(t, os.WriteFile(bad, []byte("[target\nversion="), 0644))
		_, err := Load(LoadOptions{ConfigFile: bad})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("invalid version", func(t *testing.T) {
		_, err := Load(LoadOptions{SkipEnv: true, Overrides: map[string]interface{}{"target.version": "three"}})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestLoadYAMLFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "pyswitch.yaml")
	content := "target:\n  version: \"3.11\"\nvenv:\n  path: ~/venvs/py311\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(LoadOptions{ConfigFile: path, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "3.11", cfg.Target.Version)
	assert.Equal(t, filepath.Join(home, "venvs", "py311"), cfg.VenvPath())
}

func TestValidate(t *testing.T) {
	isolate(t)
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"patch version", func(c *Config) { c.Target.Version = "3.12.1" }, false},
		{"empty version", func(c *Config) { c.Target.Version = "" }, true},
		{"malformed version", func(c *Config) { c.Target.Version = "3" }, true},
		{"empty venv", func(c *Config) { c.Venv.Path = " " }, true},
		{"probe without code", func(c *Config) { c.Verify.Probes = []Probe{{Name: "x"}} }, true},
		{"negative timeout", func(c *Config) { c.Verify.PipTimeout = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateTOMLRoundTrip(t *testing.T) {
	home := isolate(t)
	cfg := Default()
	cfg.Target.Version = "3.11"
	cfg.Env["PIP_INDEX_URL"] = "https://mirror.example/simple"

	out, err := GenerateTOML(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "pip_timeout")
	assert.Contains(t, out, "30s")

	path := filepath.Join(home, "generated.toml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0644))

	loaded, err := Load(LoadOptions{ConfigFile: path, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()
	assert.Contains(t, content, "[target]")
	assert.Contains(t, content, `# version = "3.12"`)
	assert.Contains(t, content, "# [[verify.probes]]")
	assert.NotContains(t, content, "\nversion =")
}
