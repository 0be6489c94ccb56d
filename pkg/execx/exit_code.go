package execx

import (
	"errors"
	"fmt"
	"strconv"
)

// ExitCode represents a process exit status code.
// Exit codes are in the range 0-255 on POSIX systems.
// The zero value (0) means success.
type ExitCode int

// IsSuccess returns true if the exit code indicates successful execution
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// ExitError signals a specific process exit code without forcing
// os.Exit inside command handlers. The root command unwraps it so the
// botctl process exits with the child's code.
type ExitError struct {
	Code ExitCode
	Err  error
}

// Error returns the error message for ExitError
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError for the given code
func NewExitError(code ExitCode, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitCodeFromError extracts the exit code an error asks for. Plain
// errors map to 1; a nil error maps to 0.
func ExitCodeFromError(err error) ExitCode {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
