package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Instance errors
	ErrInstanceNotFound ErrorCode = "INSTANCE_NOT_FOUND"
	ErrInstanceInvalid  ErrorCode = "INSTANCE_INVALID"

	// Environment errors
	ErrEnvCreate  ErrorCode = "ENV_CREATE"
	ErrEnvMissing ErrorCode = "ENV_MISSING"
	ErrEnvRemove  ErrorCode = "ENV_REMOVE"
	ErrInstall    ErrorCode = "INSTALL"

	// Process errors
	ErrPythonNotFound ErrorCode = "PYTHON_NOT_FOUND"
	ErrRun            ErrorCode = "RUN"
	ErrExec           ErrorCode = "EXEC"

	// Registry errors
	ErrRegistry ErrorCode = "REGISTRY"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// BotctlError represents a structured error with code and details
type BotctlError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BotctlError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BotctlError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BotctlError) Is(target error) bool {
	var targetErr *BotctlError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BotctlError with the given code and message
func New(code ErrorCode, message string) *BotctlError {
	return &BotctlError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BotctlError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BotctlError {
	return &BotctlError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BotctlError
func Wrap(err error, code ErrorCode, message string) *BotctlError {
	if err == nil {
		return nil
	}
	return &BotctlError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BotctlError {
	if err == nil {
		return nil
	}
	return &BotctlError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BotctlError) WithDetail(key string, value interface{}) *BotctlError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *BotctlError) WithDetails(details map[string]interface{}) *BotctlError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var botctlErr *BotctlError
	if errors.As(err, &botctlErr) {
		return botctlErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BotctlError
func GetErrorCode(err error) ErrorCode {
	var botctlErr *BotctlError
	if errors.As(err, &botctlErr) {
		return botctlErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BotctlError
func GetErrorDetails(err error) map[string]interface{} {
	var botctlErr *BotctlError
	if errors.As(err, &botctlErr) {
		return botctlErr.Details
	}
	return nil
}
