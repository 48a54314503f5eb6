package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/pyswitch/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigFile points at an explicit configuration file
	EnvConfigFile = "PYSWITCH_CONFIG"

	// EnvConfigDir overrides the XDG config directory for pyswitch
	EnvConfigDir = "PYSWITCH_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for pyswitch
	EnvStateDir = "PYSWITCH_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names inside the pyswitch directories.
const (
	// AppDirName is the directory name used under every XDG root
	AppDirName = "pyswitch"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "pyswitch.log"
)

// Paths resolves the directories pyswitch reads from and writes to.
type Paths interface {
	HomeDir() string
	ConfigDir() string
	StateDir() string
	ConfigFilePath() string
	LogFilePath() string
	Expand(path string) string
}

type paths struct {
	home      string
	xdgConfig string
	xdgState  string
}

// New creates a Paths instance from the current environment.
func New() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv(EnvHome)
	}
	if home == "" {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot determine home directory")
	}

	p := &paths{home: home}

	// xdg reads the environment once at init, prefer the live value
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.xdgConfig = expandHome(dir)
	} else if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		p.xdgConfig = filepath.Join(configHome, AppDirName)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// xdg does not export a state home on every version, check manually
	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.xdgState = expandHome(dir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, AppDirName)
	} else {
		p.xdgState = filepath.Join(home, ".local", "state", AppDirName)
	}

	return p, nil
}

// HomeDir returns the user's home directory
func (p *paths) HomeDir() string {
	return p.home
}

// ConfigDir returns the XDG config directory for pyswitch
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for pyswitch
func (p *paths) StateDir() string {
	return p.xdgState
}

// ConfigFilePath returns the user configuration file, honouring PYSWITCH_CONFIG
func (p *paths) ConfigFilePath() string {
	if file := os.Getenv(EnvConfigFile); file != "" {
		return expandHome(file)
	}
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// LogFilePath returns the path of the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// Expand expands a leading ~ against this instance's home directory
func (p *paths) Expand(path string) string {
	return expandWith(path, p.home)
}

// ExpandHome expands ~ to the current user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}
	return expandWith(path, homeDir)
}

func expandWith(path, homeDir string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
