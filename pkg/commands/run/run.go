// Package run implements the run command: hand the terminal over to
// the bot process until it exits.
package run

import (
	"context"
	stderrors "errors"

	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/registry"
	"github.com/botctl/botctl/pkg/runner"
)

// RunOptions defines the options for the Run command
type RunOptions struct {
	// Dir is the instance directory
	Dir string

	// Args are forwarded verbatim to the bot, between the entry point
	// and the config file
	Args []string

	// FileSystem is the filesystem to use (optional, defaults to the
	// OS filesystem)
	FileSystem afero.Fs

	// Runner is the process runner to use (optional, defaults to the
	// OS runner)
	Runner execx.Runner
}

// Run starts the instance's bot and waits for it to exit. The bot's
// exit code comes back as an ExitError for main to propagate.
func Run(ctx context.Context, opts RunOptions) error {
	logger := logging.GetLogger("commands.run")
	logger.Info().
		Str("dir", opts.Dir).
		Strs("args", opts.Args).
		Msg("Running bot")

	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}
	execRunner := opts.Runner
	if execRunner == nil {
		execRunner = execx.NewOSRunner()
	}

	p, err := paths.New()
	if err != nil {
		return err
	}

	inst, err := instance.New(opts.Dir, p.GlobalConfigPath())
	if err != nil {
		return err
	}

	err = runner.New(fs, execRunner).Run(ctx, inst, opts.Args)

	// The bot ran exactly when the runner returns nil or an ExitError;
	// validation failures never reach the registry.
	var exitErr *execx.ExitError
	if err == nil || stderrors.As(err, &exitErr) {
		recordRun(p, inst)
	}

	return err
}

// recordRun updates the instance registry. Registry writes are
// bookkeeping only and never fail the command.
func recordRun(p paths.Paths, inst *instance.Instance) {
	logger := logging.GetLogger("commands.run")

	reg, err := registry.Open(p.RegistryPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Registry unavailable")
		return
	}
	defer func() {
		_ = reg.Close()
	}()

	if err := reg.RecordRun(inst); err != nil {
		logger.Warn().Err(err).Msg("Failed to record run")
	}
}
