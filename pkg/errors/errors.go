// Package errors provides structured error types for the bridges toolkit.
//
// Errors carry a machine-readable [Code] so that the CLI, the pipeline and the
// publishers can tell caller mistakes apart from delivery failures:
//   - INVALID_*: Input validation failures (bad topology names, malformed files)
//   - UNENCODABLE_VALUE: A node value has no canonical document form
//   - NOT_FOUND, NETWORK_ERROR, TIMEOUT, UNAUTHORIZED, FORBIDDEN: Delivery outcomes
//   - INTERNAL_ERROR, UNSUPPORTED: Everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTopology, "unknown topology %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidTopology) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "post %s", url)
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
	ErrCodeInvalidTopology   Code = "INVALID_TOPOLOGY"
	ErrCodeInvalidDocument   Code = "INVALID_DOCUMENT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidAssignment Code = "INVALID_ASSIGNMENT"
	ErrCodeUnencodable       Code = "UNENCODABLE_VALUE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network and delivery errors
	ErrCodeNetwork        Code = "NETWORK_ERROR"
	ErrCodeTimeout        Code = "TIMEOUT"
	ErrCodeDeliveryFailed Code = "DELIVERY_FAILED"

	// Authentication errors reported by a delivery target
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"

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

// StatusError reports a non-success status returned by a delivery target.
type StatusError struct {
	Status int    // HTTP-style status code
	Body   string // Response body excerpt, possibly empty
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("status %d", e.Status)
}

// Code maps the status to an error code.
func (e *StatusError) Code() Code {
	switch {
	case e.Status == 401:
		return ErrCodeUnauthorized
	case e.Status == 403:
		return ErrCodeForbidden
	case e.Status == 404:
		return ErrCodeNotFound
	case e.Status == 408 || e.Status == 504:
		return ErrCodeTimeout
	case e.Status >= 500:
		return ErrCodeNetwork
	default:
		return ErrCodeDeliveryFailed
	}
}
