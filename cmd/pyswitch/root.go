package pyswitch

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/pyswitch/internal/version"
	"github.com/arthur-debert/pyswitch/pkg/commands"
	"github.com/arthur-debert/pyswitch/pkg/config"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries the global flags and the dependencies handed to every flow
type app struct {
	base commands.Deps
	deps commands.Deps

	verbosity  int
	dryRun     bool
	format     string
	configFile string
	target     string
	venvPath   string

	outputFormat report.Format
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(commands.Deps{})
}

// newRootCmd builds the command tree over base. Zero fields of base are
// filled by the flows with the production implementations.
func newRootCmd(base commands.Deps) *cobra.Command {
	initTemplateFormatting()

	a := &app{base: base}

	rootCmd := &cobra.Command{
		Use:     "pyswitch",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.prepare()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&a.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&a.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&a.target, "target", "", MsgFlagTarget)
	flags.StringVar(&a.venvPath, "venv", "", MsgFlagVenv)

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newFindCmd(a))
	rootCmd.AddCommand(newSwitchCmd(a))
	rootCmd.AddCommand(newFixCmd(a))
	rootCmd.AddCommand(newInstallCmd(a))
	rootCmd.AddCommand(newVenvCmd(a))
	rootCmd.AddCommand(newVerifyCmd(a))
	rootCmd.AddCommand(newScriptsCmd(a))
	rootCmd.AddCommand(newSetupCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newUsageCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// prepare loads the configuration with the flag overrides applied
func (a *app) prepare() error {
	format, err := report.ParseFormat(a.format)
	if err != nil {
		return err
	}
	a.outputFormat = format

	overrides := map[string]interface{}{}
	if a.target != "" {
		overrides["target.version"] = a.target
	}
	if a.venvPath != "" {
		overrides["venv.path"] = a.venvPath
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: a.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}

	a.deps = a.base
	a.deps.Config = cfg
	a.deps.DryRun = a.dryRun
	a.deps.Prepare()

	log.Debug().
		Str("target", cfg.Target.Version).
		Str("venv", cfg.VenvPath()).
		Bool("dryRun", a.dryRun).
		Msg("Configuration loaded")
	return nil
}

// formatFor resolves auto against w: terminals get styled output, any
// other writer gets plain text
func (a *app) formatFor(w io.Writer) report.Format {
	if a.outputFormat != report.FormatAuto {
		return a.outputFormat
	}
	if f, ok := w.(*os.File); ok {
		return a.outputFormat.Resolve(f)
	}
	return report.FormatText
}

// emit renders rep and turns a failed flow into an error so the process
// exits with status 1
func (a *app) emit(cmd *cobra.Command, rep *report.Report, ok bool) error {
	w := cmd.OutOrStdout()
	format := a.formatFor(w)
	if err := report.Render(w, rep, format); err != nil {
		return fmt.Errorf(MsgErrRender, err)
	}
	if a.deps.DryRun && !format.Structured() {
		fmt.Fprintln(w, MsgDryRunNotice)
	}
	if !ok {
		return errors.Newf(errors.ErrCommandFailed, MsgErrFlowFailed, cmd.CommandPath())
	}
	return nil
}
