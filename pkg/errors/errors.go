// Package errors provides structured error types for htbuild.
//
// Every failure that reaches the command line carries a machine-readable
// [Code] so callers (CI pipelines, wrapper scripts) can tell an invalid build
// type apart from a broken recipe or an unwritable build directory.
//
// # Error Codes
//
//   - INVALID_*: input validation failures, raised before any side effect
//   - CONFIGURATION: recipe-side problems such as an unpinned requirement
//   - FILESYSTEM: build directory or staging area operations
//   - CHILD_PROCESS: the dependency-resolution tool could not be started
//   - INTERNAL: unexpected internal errors
//
// A child process that starts and exits non-zero is not an error in this
// taxonomy; its exit code is relayed as-is.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidBuildType, "invalid build type %q", bt)
//	if errors.Is(err, errors.ErrCodeInvalidBuildType) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileSystem, origErr, "create %s", dir)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidBuildType Code = "INVALID_BUILD_TYPE"
	ErrCodeInvalidPackage   Code = "INVALID_PACKAGE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Recipe errors
	ErrCodeConfiguration Code = "CONFIGURATION"

	// Resource errors
	ErrCodeFileSystem   Code = "FILESYSTEM"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeChildProcess Code = "CHILD_PROCESS"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
