// Package errors provides structured error types for seqgrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the layout core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The layout core raises three families of errors:
//   - INVALID_CONFIG: malformed or inconsistent level configuration (fatal)
//   - OUT_OF_BOUNDS: a logical index outside a frame's addressable range
//   - DEGENERATE: recoverable input problems such as zero-length segments
//
// Collaborators (sources, caches, storage, server) use the remaining codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "modulo %d must be positive", m)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeOutOfBounds   Code = "OUT_OF_BOUNDS"
	ErrCodeDegenerate    Code = "DEGENERATE"
	ErrCodeUnsupported   Code = "UNSUPPORTED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
		return e.Message
	}
	return err.Error()
}

// BoundsError describes a logical index that fell outside a frame.
// Drawing loops use it to stop the current segment and report where.
type BoundsError struct {
	Index    int64 // Requested logical index
	Capacity int64 // Addressable range of the frame
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: index %d outside addressable range [0, %d)", ErrCodeOutOfBounds, e.Index, e.Capacity)
}

// Code returns the error code for this error type.
func (e *BoundsError) Code() Code {
	return ErrCodeOutOfBounds
}

// OutOfBounds returns a *BoundsError wrapped in an *Error so that both
// Is(err, ErrCodeOutOfBounds) and errors.As(err, **BoundsError) work.
func OutOfBounds(index, capacity int64) error {
	be := &BoundsError{Index: index, Capacity: capacity}
	return &Error{Code: ErrCodeOutOfBounds, Message: fmt.Sprintf("index %d beyond frame", index), Cause: be}
}
