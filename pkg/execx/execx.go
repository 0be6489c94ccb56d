// Package execx runs external commands behind a small interface so
// command logic can be tested without spawning real processes.
package execx

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"github.com/botctl/botctl/pkg/logging"
)

// Spec describes a single command invocation
type Spec struct {
	// Name is the binary to run, either a bare name resolved via PATH
	// or an absolute path
	Name string

	// Args are the command arguments, not including the binary name
	Args []string

	// Dir is the working directory; empty means inherit
	Dir string

	// Env is the full environment for the child; nil means inherit
	Env []string

	// Stdin, Stdout and Stderr wire the child's streams. Nil Stdout
	// and Stderr mean capture into the Result.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ForwardSignals lists signals relayed to the child for as long
	// as it runs. Set when the child takes over the foreground.
	ForwardSignals []os.Signal
}

// Result holds the outcome of a command execution
type Result struct {
	// ExitCode is the child's exit status. Zero means success.
	ExitCode ExitCode

	// Stdout and Stderr hold captured output when the Spec did not
	// provide writers
	Stdout string
	Stderr string
}

// Success returns true if the command exited with code zero
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess()
}

// Runner executes external commands
type Runner interface {
	// Run executes the command described by spec. A non-zero exit from
	// the child is reported in the Result, not as an error; the error
	// return covers failures to start the process at all.
	Run(ctx context.Context, spec Spec) (*Result, error)

	// LookPath resolves a binary name against PATH
	LookPath(name string) (string, error)
}

// OSRunner is the Runner implementation backed by os/exec
type OSRunner struct{}

// NewOSRunner creates a Runner that spawns real processes
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes the command described by spec
func (r *OSRunner) Run(ctx context.Context, spec Spec) (*Result, error) {
	logger := logging.GetLogger("execx")
	logger.Debug().
		Str("command", spec.Name).
		Strs("args", spec.Args).
		Str("dir", spec.Dir).
		Msg("Executing command")

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	cmd.Stdin = spec.Stdin

	result := &Result{}

	var stdout, stderr bytes.Buffer
	if spec.Stdout != nil {
		cmd.Stdout = spec.Stdout
	} else {
		cmd.Stdout = &stdout
	}
	if spec.Stderr != nil {
		cmd.Stderr = spec.Stderr
	} else {
		cmd.Stderr = &stderr
	}

	err := r.runAndForward(cmd, spec.ForwardSignals)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = ExitCode(exitErr.ExitCode())
			logger.Debug().
				Str("command", spec.Name).
				Int("exit_code", exitErr.ExitCode()).
				Msg("Command exited non-zero")
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// runAndForward runs cmd, relaying the requested signals to the
// child process until it exits
func (r *OSRunner) runAndForward(cmd *exec.Cmd, signals []os.Signal) error {
	if len(signals) == 0 {
		return cmd.Run()
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)
	signal.Stop(sigCh)
	return err
}

// LookPath resolves a binary name against PATH
func (r *OSRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
