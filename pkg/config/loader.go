package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	pyerrors "github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "PYSWITCH_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadOptions controls which layers are loaded
type LoadOptions struct {
	// ConfigFile overrides the user configuration file location
	ConfigFile string
	// Overrides are applied last, keyed by dotted path (e.g. "target.version")
	Overrides map[string]interface{}
	// SkipUserFile ignores the user configuration file
	SkipUserFile bool
	// SkipEnv ignores PYSWITCH_ environment variables
	SkipEnv bool
}

// GetDefaultsContent returns the embedded defaults file
func GetDefaultsContent() string {
	return string(defaultConfig)
}

// Default returns the embedded defaults only
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipUserFile: true, SkipEnv: true})
	if err != nil {
		// embedded defaults are validated by tests
		panic(err)
	}
	return cfg
}

// Load builds the effective configuration from all layers and validates it
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, pyerrors.Wrap(err, pyerrors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	if !opts.SkipUserFile {
		userFile := opts.ConfigFile
		if userFile == "" {
			if p, err := paths.New(); err == nil {
				userFile = p.ConfigFilePath()
			}
		} else {
			userFile = paths.ExpandHome(userFile)
		}

		if userFile != "" {
			if _, err := os.Stat(userFile); err == nil {
				if err := k.Load(file.Provider(userFile), parserFor(userFile)); err != nil {
					return nil, pyerrors.Wrapf(err, pyerrors.ErrConfigParse,
						"failed to load config from %s", userFile)
				}
				logger.Debug().Str("path", userFile).Msg("Loaded user config")
			} else if opts.ConfigFile != "" {
				return nil, pyerrors.Wrapf(err, pyerrors.ErrConfigLoad,
					"config file %s not found", userFile)
			}
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, pyerrors.Wrap(err, pyerrors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, pyerrors.Wrap(err, pyerrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, pyerrors.Wrap(err, pyerrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if cfg.Env == nil {
		cfg.Env = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parserFor picks the parser from the file extension, TOML unless the
// file is .yaml or .yml
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	}
	return toml.Parser()
}

// envKey maps PYSWITCH_TARGET_VERSION to target.version,
// PYSWITCH_VERIFY_PIP_TIMEOUT to verify.pip_timeout and
// PYSWITCH_ENV_PIP_INDEX_URL to env.PIP_INDEX_URL.
// Config-managed path variables are not configuration keys.
func envKey(s string) string {
	switch s {
	case paths.EnvConfigFile, paths.EnvConfigDir, paths.EnvStateDir:
		return ""
	}
	section, rest, found := strings.Cut(strings.TrimPrefix(s, EnvPrefix), "_")
	section = strings.ToLower(section)
	if !found {
		return section
	}
	// [env] keys are variable names and keep their case
	if section != "env" {
		rest = strings.ToLower(rest)
	}
	return section + "." + rest
}
