// Package shell implements the exec command: run a one-off shell
// snippet inside an instance's activated environment, for maintenance
// jobs like pip list or pip freeze. Scripts run in an in-process
// POSIX shell, so there is no dependency on a system /bin/sh.
package shell

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/runner"
)

// ExecOptions defines the options for the Exec command
type ExecOptions struct {
	// Dir is the instance directory
	Dir string

	// Script is the shell snippet to run
	Script string

	// Args become the script's positional parameters ($1, $2, ...)
	Args []string

	// FileSystem is the filesystem to use (optional, defaults to the
	// OS filesystem)
	FileSystem afero.Fs

	// Stdin, Stdout and Stderr wire the script's streams (optional,
	// default to the botctl process's own)
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Exec runs the script with the instance's virtualenv activated: the
// venv bin dir leads PATH, VIRTUAL_ENV is set, and the instance's env
// table is exported. The script's exit code comes back as an
// ExitError for main to propagate.
func Exec(ctx context.Context, opts ExecOptions) error {
	logger := logging.GetLogger("commands.shell")
	logger.Info().
		Str("dir", opts.Dir).
		Str("script", opts.Script).
		Msg("Executing script in instance environment")

	if strings.TrimSpace(opts.Script) == "" {
		return errors.New(errors.ErrInvalidInput, "no script given")
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	p, err := paths.New()
	if err != nil {
		return err
	}

	inst, err := instance.New(opts.Dir, p.GlobalConfigPath())
	if err != nil {
		return err
	}

	exists, err := inst.Exists(fs)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Newf(errors.ErrInstanceNotFound, "instance directory does not exist: %s", inst.Dir)
	}
	if !inst.HasVenv(fs) {
		return errors.Newf(errors.ErrEnvMissing,
			"instance %s has no virtualenv (run 'botctl virtualenv %s' first)", inst.Name, inst.Dir)
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(opts.Script), "script")
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "script syntax error")
	}

	runnerOpts := []interp.RunnerOption{
		interp.Dir(inst.Dir),
		interp.Env(expand.ListEnviron(runner.Environ(inst)...)),
		interp.StdIO(stdin, stdout, stderr),
	}
	if len(opts.Args) > 0 {
		// "--" keeps leading dashes in Args from being read as shell
		// options
		params := append([]string{"--"}, opts.Args...)
		runnerOpts = append(runnerOpts, interp.Params(params...))
	}

	sh, err := interp.New(runnerOpts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrExec, "failed to create shell interpreter")
	}

	if err := sh.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if stderrors.As(err, &exitStatus) {
			logger.Debug().
				Str("instance", inst.Name).
				Uint8("exit_code", uint8(exitStatus)).
				Msg("Script exited non-zero")
			return execx.NewExitError(execx.ExitCode(exitStatus), nil)
		}
		return errors.Wrap(err, errors.ErrExec, "script execution failed")
	}

	return nil
}
