package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/botctl/botctl/internal/version"
	"github.com/botctl/botctl/pkg/commands/clean"
	"github.com/botctl/botctl/pkg/commands/genconfig"
	"github.com/botctl/botctl/pkg/commands/initialize"
	"github.com/botctl/botctl/pkg/commands/list"
	"github.com/botctl/botctl/pkg/commands/run"
	"github.com/botctl/botctl/pkg/commands/shell"
	"github.com/botctl/botctl/pkg/commands/status"
	"github.com/botctl/botctl/pkg/commands/virtualenv"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/ui"
)

// resolveFormat maps the --format flag to a concrete format for this
// command's output stream
func resolveFormat(cmd *cobra.Command) (ui.Format, error) {
	formatStr, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(formatStr)
	if err != nil {
		return ui.FormatAuto, errors.Wrapf(err, errors.ErrInvalidInput, "invalid --format value %q", formatStr)
	}

	if format == ui.FormatAuto {
		if file, ok := cmd.OutOrStdout().(*os.File); ok {
			return ui.DetectFormat(file), nil
		}
		return ui.FormatTerminal, nil
	}

	return format, nil
}

// renderResult sends a command result through the renderer selected by
// the --format flag
func renderResult(cmd *cobra.Command, result interface{}) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}

	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	return renderer.RenderResult(result)
}

// completeInstanceDir offers directories for the instance argument and
// falls back to default completion afterwards
func completeInstanceDir(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

func newVirtualenvCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "virtualenv <dir>",
		Short:             MsgVirtualenvShort,
		Long:              MsgVirtualenvLong,
		Example:           MsgVirtualenvExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInstanceDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Root().PersistentFlags().GetBool("force")

			format, err := resolveFormat(cmd)
			if err != nil {
				return err
			}

			opts := virtualenv.ProvisionOptions{Dir: args[0], Force: force}

			// On an interactive terminal a spinner stands in for the
			// pip chatter; the captured output is replayed on failure
			// so install errors stay diagnosable
			var captured bytes.Buffer
			var spinner *pterm.SpinnerPrinter
			if format == ui.FormatTerminal {
				opts.Output = &captured
				opts.ErrOutput = &captured
				spinner, _ = pterm.DefaultSpinner.
					WithWriter(cmd.ErrOrStderr()).
					WithRemoveWhenDone(true).
					Start(fmt.Sprintf(MsgProvisionSpinner, args[0]))
			}

			result, err := virtualenv.Provision(cmd.Context(), opts)
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				if captured.Len() > 0 {
					_, _ = captured.WriteTo(cmd.ErrOrStderr())
				}
				return err
			}

			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run <dir> [args...]",
		Short:             MsgRunShort,
		Long:              MsgRunLong,
		Example:           MsgRunExample,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeInstanceDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.Run(cmd.Context(), run.RunOptions{
				Dir:  args[0],
				Args: args[1:],
			})
		},
	}

	// Flags after the instance directory belong to the bot, not to
	// botctl
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "clean <dir>",
		Short:             MsgCleanShort,
		Long:              MsgCleanLong,
		Example:           MsgCleanExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInstanceDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := clean.Clean(clean.CleanOptions{Dir: args[0]})
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "status <dir>",
		Short:             MsgStatusShort,
		Long:              MsgStatusLong,
		Example:           MsgStatusExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInstanceDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := status.Status(status.StatusOptions{Dir: args[0]})
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := list.List(list.ListOptions{})
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "init <dir>",
		Short:             MsgInitShort,
		Long:              MsgInitLong,
		Example:           MsgInitExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInstanceDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := initialize.InitInstance(initialize.InitOptions{Dir: args[0]})
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "genconfig [dir]",
		Short:             MsgGenConfigShort,
		Long:              MsgGenConfigLong,
		Example:           MsgGenConfigExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeInstanceDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := genconfig.GenConfigOptions{}
			if len(args) > 0 {
				opts.Dir = args[0]
			}

			result, err := genconfig.GenConfig(opts)
			if err != nil {
				return err
			}
			return renderResult(cmd, result)
		},
	}
}

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "exec <dir> <script> [args...]",
		Short:             MsgExecShort,
		Long:              MsgExecLong,
		Example:           MsgExecExample,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeInstanceDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shell.Exec(cmd.Context(), shell.ExecOptions{
				Dir:    args[0],
				Script: args[1],
				Args:   args[2:],
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
		},
	}

	// Script arguments may carry dashes of their own
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("botctl version %s\n", version.Version)
			cmd.Printf("  commit: %s\n", version.Commit)
			cmd.Printf("  built:  %s\n", version.Date)
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
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate bash completion")
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate zsh completion")
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
					log.Error().Err(err).Msg("Failed to generate fish completion")
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate powershell completion")
				}
			}
		},
	}
}
