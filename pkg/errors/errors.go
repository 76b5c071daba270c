// Package errors provides structured error types for connmat.
//
// Every failure that reaches the user carries a machine-readable [Code] so
// the CLI, the HTTP server and tests can classify it without string matching.
//
// # Error Codes
//
// The two file-system codes mirror the only ways a build can fail:
//   - INPUT_ACCESS: the input path is missing or unreadable
//   - OUTPUT_WRITE: the output path cannot be written (missing directory,
//     permission denied, disk full)
//
// The remaining codes cover configuration, request validation and the
// optional network-backed cache and archive.
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeInputAccess, origErr, "open %s", path)
//	if errors.Is(err, errors.ErrCodeInputAccess) {
//	    // input missing
//	}
//
// Malformed input lines are never errors; they are dropped by the parser.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// File-system errors
	ErrCodeInputAccess Code = "INPUT_ACCESS"
	ErrCodeOutputWrite Code = "OUTPUT_WRITE"

	// Validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Network errors (cache and archive backends)
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err carries the given error code.
// The outermost *Error in the chain decides.
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
// For *Error types the code prefix is dropped and the cause is appended,
// since file-system causes ("no such file or directory") are what the
// user needs to see.
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
