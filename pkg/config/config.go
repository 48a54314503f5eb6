package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/paths"
)

// Config is the effective pyswitch configuration
type Config struct {
	Target  Target            `koanf:"target" toml:"target" json:"target" yaml:"target"`
	Venv    Venv              `koanf:"venv" toml:"venv" json:"venv" yaml:"venv"`
	Install Install           `koanf:"install" toml:"install" json:"install" yaml:"install"`
	Env     map[string]string `koanf:"env" toml:"env" json:"env" yaml:"env"`
	Scripts Scripts           `koanf:"scripts" toml:"scripts" json:"scripts" yaml:"scripts"`
	Verify  Verify            `koanf:"verify" toml:"verify" json:"verify" yaml:"verify"`
}

// Target describes the interpreter to switch to
type Target struct {
	Version    string   `koanf:"version" toml:"version" json:"version" yaml:"version"`
	Legacy     []string `koanf:"legacy" toml:"legacy" json:"legacy" yaml:"legacy"`
	SearchDirs []string `koanf:"search_dirs" toml:"search_dirs" json:"searchDirs" yaml:"searchDirs"`
}

// Venv holds virtual environment settings
type Venv struct {
	Path         string   `koanf:"path" toml:"path" json:"path" yaml:"path"`
	Upgrade      []string `koanf:"upgrade" toml:"upgrade" json:"upgrade" yaml:"upgrade"`
	Packages     []string `koanf:"packages" toml:"packages" json:"packages" yaml:"packages"`
	StripMarkers []string `koanf:"strip_markers" toml:"strip_markers" json:"stripMarkers" yaml:"stripMarkers"`
}

// Install holds the package manager flow settings
type Install struct {
	Manager        string   `koanf:"manager" toml:"manager" json:"manager" yaml:"manager"`
	RepositoryTool string   `koanf:"repository_tool" toml:"repository_tool" json:"repositoryTool" yaml:"repositoryTool"`
	Sudo           bool     `koanf:"sudo" toml:"sudo" json:"sudo" yaml:"sudo"`
	Repository     string   `koanf:"repository" toml:"repository" json:"repository" yaml:"repository"`
	BuildDeps      []string `koanf:"build_deps" toml:"build_deps" json:"buildDeps" yaml:"buildDeps"`
	Packages       []string `koanf:"packages" toml:"packages" json:"packages" yaml:"packages"`
}

// Scripts holds the paths of the generated artifacts
type Scripts struct {
	LocalBin   string `koanf:"local_bin" toml:"local_bin" json:"localBin" yaml:"localBin"`
	Switch     string `koanf:"switch" toml:"switch" json:"switch" yaml:"switch"`
	Aliases    string `koanf:"aliases" toml:"aliases" json:"aliases" yaml:"aliases"`
	Activation string `koanf:"activation" toml:"activation" json:"activation" yaml:"activation"`
	Helper     string `koanf:"helper" toml:"helper" json:"helper" yaml:"helper"`
}

// Verify holds the verification settings
type Verify struct {
	Probes      []Probe       `koanf:"probes" toml:"probes" json:"probes" yaml:"probes"`
	PipPackage  string        `koanf:"pip_package" toml:"pip_package" json:"pipPackage" yaml:"pipPackage"`
	PipTimeout  time.Duration `koanf:"pip_timeout" toml:"pip_timeout" json:"pipTimeout" yaml:"pipTimeout"`
	PathPreview int           `koanf:"path_preview" toml:"path_preview" json:"pathPreview" yaml:"pathPreview"`
}

// Probe is a feature check run inside the target interpreter
type Probe struct {
	Name  string `koanf:"name" toml:"name" json:"name" yaml:"name"`
	Code  string `koanf:"code" toml:"code" json:"code" yaml:"code"`
	Since string `koanf:"since" toml:"since" json:"since,omitempty" yaml:"since,omitempty"`
}

var versionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// Binary returns the interpreter command, e.g. python3.12
func (t Target) Binary() string {
	return "python" + t.Version
}

// NoDot returns the version without dots, e.g. 312
func (t Target) NoDot() string {
	return strings.ReplaceAll(t.Version, ".", "")
}

// Packages returns the default interpreter packages for the target
func (t Target) Packages() []string {
	bin := t.Binary()
	return []string{bin, bin + "-dev", bin + "-venv", bin + "-distutils"}
}

// Candidates returns the fallback interpreter paths, one per search dir
func (t Target) Candidates() []string {
	candidates := make([]string, 0, len(t.SearchDirs))
	for _, dir := range t.SearchDirs {
		dir = strings.TrimRight(t.Expand(dir), "/")
		candidates = append(candidates, dir+"/"+t.Binary())
	}
	return candidates
}

// Expand replaces the {version} and {nodot} placeholders and a leading ~
func (t Target) Expand(s string) string {
	s = strings.ReplaceAll(s, "{version}", t.Version)
	s = strings.ReplaceAll(s, "{nodot}", t.NoDot())
	return paths.ExpandHome(s)
}

// InterpreterPackages returns the configured packages or the defaults
// derived from the target version
func (c *Config) InterpreterPackages() []string {
	if len(c.Install.Packages) > 0 {
		return c.Install.Packages
	}
	return c.Target.Packages()
}

// VenvPath returns the expanded virtual environment path
func (c *Config) VenvPath() string {
	return c.Target.Expand(c.Venv.Path)
}

// ScriptPaths returns the expanded artifact paths
func (c *Config) ScriptPaths() Scripts {
	return Scripts{
		LocalBin:   c.Target.Expand(c.Scripts.LocalBin),
		Switch:     c.Target.Expand(c.Scripts.Switch),
		Aliases:    c.Target.Expand(c.Scripts.Aliases),
		Activation: c.Target.Expand(c.Scripts.Activation),
		Helper:     c.Target.Expand(c.Scripts.Helper),
	}
}

// Validate checks the values every flow depends on
func (c *Config) Validate() error {
	if c.Target.Version == "" {
		return errors.New(errors.ErrConfigValid, "target.version must be set")
	}
	if !versionPattern.MatchString(c.Target.Version) {
		return errors.Newf(errors.ErrConfigValid,
			"target.version %q is not a MAJOR.MINOR version", c.Target.Version)
	}
	if strings.TrimSpace(c.Venv.Path) == "" {
		return errors.New(errors.ErrConfigValid, "venv.path must be set")
	}
	for _, p := range c.Verify.Probes {
		if p.Code == "" {
			return errors.Newf(errors.ErrConfigValid, "probe %q has no code", p.Name)
		}
	}
	if c.Verify.PipTimeout < 0 {
		return errors.New(errors.ErrConfigValid, "verify.pip_timeout must not be negative")
	}
	return nil
}
