// Package errors provides structured error types for mvnq.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - A clean split between retryable and structural failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures, rejected before any network call
//   - NOT_FOUND: The coordinate or version has no matching metadata
//   - NETWORK_*/TIMEOUT: Transient transport failures, retryable by the caller
//   - SIZE_LIMIT_EXCEEDED: Response exceeded the byte ceiling; do not retry
//     without raising the limit
//   - MALFORMED_XML: Structural parse failure, never retryable
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid coordinate: %s", coord)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidVersion    Code = "INVALID_VERSION"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Resource not found: a normal outcome for unknown coordinates, not a fault
	ErrCodeNotFound Code = "NOT_FOUND"

	// Transient transport errors (retryable)
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Non-retryable fetch/parse errors
	ErrCodeSizeLimit    Code = "SIZE_LIMIT_EXCEEDED"
	ErrCodeMalformedXML Code = "MALFORMED_XML"

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
		return e.Message
	}
	return err.Error()
}

// Retryable reports whether the caller may retry the failed operation
// unchanged. Only transient transport errors qualify; validation, parse,
// and size-limit failures never do.
func Retryable(err error) bool {
	switch GetCode(err) {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}
