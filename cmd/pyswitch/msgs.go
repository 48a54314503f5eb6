package pyswitch

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort         = "Switch CDSW sessions to a newer Python interpreter"
	MsgFindShort         = "List installed Python interpreters"
	MsgFindLong          = "Find looks for the legacy interpreters and the target interpreter in PATH and the configured search directories."
	MsgSwitchShort       = "Switch the session to the target interpreter"
	MsgFixShort          = "Repair a session still running the old interpreter"
	MsgInstallShort      = "Install the target interpreter with the package manager"
	MsgInstallLong       = "Install adds the package repository, the build dependencies and the interpreter packages, unless the interpreter is already installed."
	MsgVenvShort         = "Manage the virtual environment"
	MsgVenvCreateShort   = "Create the virtual environment"
	MsgVenvSwitchShort   = "Switch the session into the virtual environment"
	MsgVenvPackagesShort = "Install packages into the virtual environment"
	MsgVenvExecShort     = "Run a shell command inside the virtual environment"
	MsgVerifyShort       = "Verify the interpreter in use"
	MsgScriptsShort      = "Write the switch script, aliases, activation script and helper module"
	MsgScriptsLong       = "Scripts writes the persistence artifacts. With no arguments every kind is written; otherwise only the named kinds (switch, aliases, activation, helper)."
	MsgSetupShort        = "Run the complete installation"
	MsgConfigShort       = "Print the effective configuration"
	MsgUsageShort        = "Show how to use the switched interpreter"
	MsgVersionShort      = "Print version information"
	MsgCompletionShort   = "Generate shell completion script"

	// Status messages
	MsgVersionFormat   = "pyswitch version %s\n  commit: %s\n  built:  %s\n"
	MsgDryRunNotice    = "\nDRY RUN MODE - No changes were made"
	MsgNothingToExport = "# nothing to export\n"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrFlowFailed   = "%s did not complete successfully"
	MsgErrNoCommand    = "no command specified"
	MsgErrUnknownShell = "unknown shell %q (bash, zsh, sh, fish)"
	MsgErrRender       = "failed to render output: %w"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun       = "Preview changes without executing them"
	MsgFlagFormat       = "Output format (auto, term, text, json, yaml)"
	MsgFlagConfig       = "Configuration file (default is $XDG_CONFIG_HOME/pyswitch/config.toml)"
	MsgFlagTarget       = "Target Python version, e.g. 3.12"
	MsgFlagVenv         = "Virtual environment path"
	MsgFlagMethod       = "Force one switching method (path, symlink, env)"
	MsgFlagNoScripts    = "Do not write the switch script and alias file"
	MsgFlagExports      = "Print only the shell statements that apply the switch"
	MsgFlagShell        = "Shell dialect for --exports (default from $SHELL)"
	MsgFlagNoHelper     = "Do not write the notebook helper module"
	MsgFlagPlan         = "Only list the installation steps"
	MsgFlagInstall      = "Install the interpreter when it is missing"
	MsgFlagPython       = "Interpreter to verify (default is the session interpreter)"
	MsgFlagSkipPip      = "Skip the pip check"
	MsgFlagSkipPackages = "Do not install the default packages"
	MsgFlagDefaults     = "Print the commented defaults file instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/switch-long.txt
	msgSwitchLongRaw string
	MsgSwitchLong    = strings.TrimSpace(msgSwitchLongRaw)

	//go:embed msgs/switch-example.txt
	msgSwitchExampleRaw string
	MsgSwitchExample    = strings.TrimRight(msgSwitchExampleRaw, "\n")

	//go:embed msgs/fix-long.txt
	msgFixLongRaw string
	MsgFixLong    = strings.TrimSpace(msgFixLongRaw)

	//go:embed msgs/venv-long.txt
	msgVenvLongRaw string
	MsgVenvLong    = strings.TrimSpace(msgVenvLongRaw)

	//go:embed msgs/venv-example.txt
	msgVenvExampleRaw string
	MsgVenvExample    = strings.TrimRight(msgVenvExampleRaw, "\n")

	//go:embed msgs/verify-long.txt
	msgVerifyLongRaw string
	MsgVerifyLong    = strings.TrimSpace(msgVerifyLongRaw)

	//go:embed msgs/setup-long.txt
	msgSetupLongRaw string
	MsgSetupLong    = strings.TrimSpace(msgSetupLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/instructions.md
	msgInstructions string
)
