// Package config loads the pyswitch configuration.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $PYSWITCH_CONFIG or $XDG_CONFIG_HOME/pyswitch/config.toml
//  3. PYSWITCH_SECTION_KEY environment variables, e.g. PYSWITCH_TARGET_VERSION
//  4. explicit overrides, typically command line flags
//
// Values may use the {version} and {nodot} placeholders, which are expanded
// against the target version when the derived accessors are called.
package config
