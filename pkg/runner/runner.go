// Package runner hands a bot instance off to its Python process: the
// virtualenv's interpreter, the entry point, any forwarded arguments,
// and the bot config file as the final argument.
package runner

import (
	"context"
	"io"
	"os"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/python"
)

// Runner starts bot processes for instances
type Runner struct {
	fs     afero.Fs
	exec   execx.Runner
	logger zerolog.Logger

	// Stdin, Stdout and Stderr wire the bot process's streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a Runner wired to the botctl process's own stdio
func New(fs afero.Fs, exec execx.Runner) *Runner {
	return &Runner{
		fs:     fs,
		exec:   exec,
		logger: logging.GetLogger("runner"),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Argv returns the command line the bot is started with. The config
// file always comes last so the bot finds it after whatever arguments
// the caller forwarded.
func (r *Runner) Argv(inst *instance.Instance, args []string) (string, []string) {
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, inst.EntrypointPath())
	argv = append(argv, args...)
	argv = append(argv, inst.ConfigFilePath())
	return python.VenvPython(inst.VenvPath()), argv
}

// Environ builds the bot process environment: the parent environment
// with the virtualenv activated, plus the instance's env table
func Environ(inst *instance.Instance) []string {
	env := python.ActivatedEnviron(os.Environ(), inst.VenvPath())
	for name, value := range inst.Config.Env {
		env = append(env, name+"="+value)
	}
	return env
}

// Run validates the instance, starts the bot, and waits for it to
// exit. SIGINT and SIGTERM are relayed to the bot while it runs. A
// non-zero bot exit comes back as an ExitError so the botctl process
// can exit with the same code.
func (r *Runner) Run(ctx context.Context, inst *instance.Instance, args []string) error {
	if err := inst.Validate(r.fs); err != nil {
		return err
	}
	if !inst.HasVenv(r.fs) {
		return errors.Newf(errors.ErrEnvMissing,
			"instance %s has no virtualenv (run 'botctl virtualenv %s' first)", inst.Name, inst.Dir)
	}

	name, argv := r.Argv(inst, args)

	r.logger.Info().
		Str("instance", inst.Name).
		Str("python", name).
		Strs("argv", argv).
		Msg("Starting bot")

	result, err := r.exec.Run(ctx, execx.Spec{
		Name:           name,
		Args:           argv,
		Dir:            inst.Dir,
		Env:            Environ(inst),
		Stdin:          r.Stdin,
		Stdout:         r.Stdout,
		Stderr:         r.Stderr,
		ForwardSignals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrRun, "failed to start %s", name)
	}
	if !result.Success() {
		r.logger.Debug().
			Str("instance", inst.Name).
			Int("exit_code", int(result.ExitCode)).
			Msg("Bot exited non-zero")
		return execx.NewExitError(result.ExitCode, nil)
	}

	r.logger.Debug().Str("instance", inst.Name).Msg("Bot exited cleanly")
	return nil
}
