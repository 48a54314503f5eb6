// Package paths provides centralized path handling for pyswitch.
//
// It resolves the XDG configuration and state directories pyswitch uses
// for its own files and expands "~" in the artifact paths read from the
// configuration.
//
// # Environment Variables
//
//   - PYSWITCH_CONFIG: explicit configuration file
//   - PYSWITCH_CONFIG_DIR: override $XDG_CONFIG_HOME/pyswitch
//   - PYSWITCH_STATE_DIR: override $XDG_STATE_HOME/pyswitch (log file)
//
// # Usage
//
//	p, err := paths.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfgFile := p.ConfigFilePath()        // ~/.config/pyswitch/config.toml
//	script := p.Expand("~/activate.sh")   // /home/user/activate.sh
package paths
