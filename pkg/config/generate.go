package config

import (
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with durations rendered as strings, the
// form the loader accepts back.
type fileConfig struct {
	Target  Target            `toml:"target"`
	Venv    Venv              `toml:"venv"`
	Install Install           `toml:"install"`
	Env     map[string]string `toml:"env"`
	Scripts Scripts           `toml:"scripts"`
	Verify  fileVerify        `toml:"verify"`
}

type fileVerify struct {
	PipPackage  string  `toml:"pip_package"`
	PipTimeout  string  `toml:"pip_timeout"`
	PathPreview int     `toml:"path_preview"`
	Probes      []Probe `toml:"probes"`
}

// GenerateTOML renders cfg as a TOML document that Load accepts
func GenerateTOML(cfg *Config) (string, error) {
	out := fileConfig{
		Target:  cfg.Target,
		Venv:    cfg.Venv,
		Install: cfg.Install,
		Env:     cfg.Env,
		Scripts: cfg.Scripts,
		Verify: fileVerify{
			PipPackage:  cfg.Verify.PipPackage,
			PipTimeout:  cfg.Verify.PipTimeout.String(),
			PathPreview: cfg.Verify.PathPreview,
			Probes:      cfg.Verify.Probes,
		},
	}
	if out.Env == nil {
		out.Env = map[string]string{}
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(data), nil
}

// GenerateConfigContent returns the defaults with every value commented
// out, suitable as a starting user configuration file
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// commentOutConfigValues comments out assignment lines and the continuation
// lines of multi-line arrays, keeping comments and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// section headers, including arrays of tables
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !strings.Contains(trimmed, "=") {
			if strings.HasPrefix(trimmed, "[[") {
				result = append(result, "# "+line)
			} else {
				result = append(result, line)
			}
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
