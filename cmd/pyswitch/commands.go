package pyswitch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/arthur-debert/pyswitch/internal/version"
	"github.com/arthur-debert/pyswitch/pkg/commands"
	"github.com/arthur-debert/pyswitch/pkg/commands/writescripts"
	"github.com/arthur-debert/pyswitch/pkg/config"
	"github.com/arthur-debert/pyswitch/pkg/environ"
	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/report"
	"github.com/arthur-debert/pyswitch/pkg/scripts"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "find [versions...]",
		Short:   MsgFindShort,
		Long:    MsgFindLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.Find(cmd.Context(), commands.FindOptions{Deps: a.deps, Versions: args})
			if err != nil {
				return err
			}
			// a missing target is reported, not a failure of the listing
			return a.emit(cmd, res.Report, true)
		},
	}
}

func newSwitchCmd(a *app) *cobra.Command {
	var (
		method    string
		noScripts bool
		exports   bool
		shellName string
	)

	cmd := &cobra.Command{
		Use:     "switch",
		Short:   MsgSwitchShort,
		Long:    MsgSwitchLong,
		Example: MsgSwitchExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.switch")
			shell, err := resolveShell(shellName)
			if err != nil {
				return err
			}

			res, err := commands.Switch(cmd.Context(), commands.SwitchOptions{
				Deps:        a.deps,
				Method:      method,
				SkipScripts: noScripts,
			})
			if err != nil {
				return err
			}
			logger.Info().Bool("ok", res.OK).Msg("Switch finished")

			if exports {
				return a.exports(cmd, shell, res.OK)
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}

	cmd.Flags().StringVar(&method, "method", "", MsgFlagMethod)
	cmd.Flags().BoolVar(&noScripts, "no-scripts", false, MsgFlagNoScripts)
	cmd.Flags().BoolVar(&exports, "exports", false, MsgFlagExports)
	cmd.Flags().StringVar(&shellName, "shell", "", MsgFlagShell)
	return cmd
}

func newFixCmd(a *app) *cobra.Command {
	var noHelper bool

	cmd := &cobra.Command{
		Use:     "fix",
		Short:   MsgFixShort,
		Long:    MsgFixLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.Fix(cmd.Context(), commands.FixOptions{Deps: a.deps, SkipHelper: noHelper})
			if err != nil {
				return err
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}

	cmd.Flags().BoolVar(&noHelper, "no-helper", false, MsgFlagNoHelper)
	return cmd
}

func newInstallCmd(a *app) *cobra.Command {
	var plan bool

	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.Install(cmd.Context(), commands.InstallOptions{Deps: a.deps, PlanOnly: plan})
			if err != nil {
				return err
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}

	cmd.Flags().BoolVar(&plan, "plan", false, MsgFlagPlan)
	return cmd
}

func newVenvCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "venv",
		Short:   MsgVenvShort,
		Long:    MsgVenvLong,
		Example: MsgVenvExample,
		GroupID: "core",
	}

	var installMissing bool
	create := &cobra.Command{
		Use:   "create",
		Short: MsgVenvCreateShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.VenvCreate(cmd.Context(), commands.VenvOptions{
				Deps:           a.deps,
				InstallMissing: installMissing,
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}
	create.Flags().BoolVar(&installMissing, "install", false, MsgFlagInstall)

	var (
		exports   bool
		shellName string
	)
	switchCmd := &cobra.Command{
		Use:   "switch",
		Short: MsgVenvSwitchShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell, err := resolveShell(shellName)
			if err != nil {
				return err
			}
			res, err := commands.VenvSwitch(cmd.Context(), commands.VenvOptions{Deps: a.deps, Create: true})
			if err != nil {
				return err
			}
			if exports {
				return a.exports(cmd, shell, res.OK)
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}
	switchCmd.Flags().BoolVar(&exports, "exports", false, MsgFlagExports)
	switchCmd.Flags().StringVar(&shellName, "shell", "", MsgFlagShell)

	packages := &cobra.Command{
		Use:   "packages [packages...]",
		Short: MsgVenvPackagesShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.VenvPackages(cmd.Context(), commands.VenvOptions{Deps: a.deps, Packages: args})
			if err != nil {
				return err
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}

	exec := &cobra.Command{
		Use:   "exec -- <command>",
		Short: MsgVenvExecShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.VenvExec(cmd.Context(), commands.VenvOptions{
				Deps:    a.deps,
				Command: strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}

	cmd.AddCommand(create, switchCmd, packages, exec)
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		python  string
		skipPip bool
	)

	cmd := &cobra.Command{
		Use:     "verify",
		Short:   MsgVerifyShort,
		Long:    MsgVerifyLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.Verify(cmd.Context(), commands.VerifyOptions{
				Deps:        a.deps,
				Interpreter: python,
				SkipPip:     skipPip,
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}

	cmd.Flags().StringVar(&python, "python", "", MsgFlagPython)
	cmd.Flags().BoolVar(&skipPip, "skip-pip", false, MsgFlagSkipPip)
	return cmd
}

func newScriptsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "scripts [kinds...]",
		Short:     MsgScriptsShort,
		Long:      MsgScriptsLong,
		GroupID:   "core",
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kinds []scripts.Kind
			for _, name := range args {
				kind, err := writescripts.ParseKind(name)
				if err != nil {
					return err
				}
				kinds = append(kinds, kind)
			}

			res, err := commands.WriteScripts(cmd.Context(), commands.ScriptsOptions{Deps: a.deps, Kinds: kinds})
			if err != nil {
				return err
			}
			return a.emit(cmd, res.Report, res.OK)
		},
	}
}

func newSetupCmd(a *app) *cobra.Command {
	var skipPackages bool

	cmd := &cobra.Command{
		Use:     "setup",
		Short:   MsgSetupShort,
		Long:    MsgSetupLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := commands.Setup(cmd.Context(), commands.SetupOptions{Deps: a.deps, SkipPackages: skipPackages})
			if err != nil {
				return err
			}
			log.Info().Str("stage", string(res.Stage)).Bool("ok", res.OK).Msg("Setup finished")
			return a.emit(cmd, res.Report, res.OK)
		},
	}

	cmd.Flags().BoolVar(&skipPackages, "skip-packages", false, MsgFlagSkipPackages)
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
				return err
			}
			content, err := config.GenerateTOML(a.deps.Config)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), content)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newUsageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "usage",
		Short:   MsgUsageShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := a.instructions()
			if err != nil {
				return err
			}
			if a.formatFor(cmd.OutOrStdout()) == report.FormatTerminal {
				content = renderMarkdown(content)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), content)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}

// exports prints the session changes as shell statements for eval
func (a *app) exports(cmd *cobra.Command, shell environ.Shell, ok bool) error {
	if !ok {
		return errors.Newf(errors.ErrCommandFailed, MsgErrFlowFailed, cmd.CommandPath())
	}
	statements := a.deps.Session.ExportEnv().Exports(shell)
	if statements == "" {
		statements = MsgNothingToExport
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), statements)
	return err
}

// resolveShell picks the --shell dialect, falling back to $SHELL
func resolveShell(name string) (environ.Shell, error) {
	if name == "" {
		return environ.DetectShell(os.Getenv("SHELL")), nil
	}
	shell, ok := environ.ParseShell(name)
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, MsgErrUnknownShell, name)
	}
	return shell, nil
}

type instructionsData struct {
	Version      string
	NoDot        string
	Switch       string
	Aliases      string
	Activation   string
	HelperModule string
}

// instructions renders the usage markdown for the configured paths
func (a *app) instructions() (string, error) {
	cfg := a.deps.Config
	p := cfg.ScriptPaths()
	tmpl, err := template.New("instructions").Parse(msgInstructions)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to parse instructions")
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, instructionsData{
		Version:      cfg.Target.Version,
		NoDot:        cfg.Target.NoDot(),
		Switch:       p.Switch,
		Aliases:      p.Aliases,
		Activation:   p.Activation,
		HelperModule: strings.TrimSuffix(filepath.Base(p.Helper), filepath.Ext(p.Helper)),
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render instructions")
	}
	return buf.String(), nil
}

func kindNames() []string {
	names := make([]string, 0, len(writescripts.AllKinds))
	for _, k := range writescripts.AllKinds {
		names = append(names, string(k))
	}
	return names
}
