package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing failures. Each code maps to a process
// exit code, see ExitCode.
const (
	ErrArgs    = "ARGS"    // bad command-line input
	ErrConnect = "CONNECT" // discovery timeout, login rejection, channel I/O failure
	ErrNoData  = "NODATA"  // nothing valid received, or everything filtered out
	ErrShaping = "SHAPING" // transliteration engine unavailable in strict mode
)

// Error represents a structured error with code, message, suggestion, and
// optional cause:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrConnect code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrConnect,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface with formatted multi-line output.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var fqErr *Error
	if errors.As(err, &fqErr) {
		return fqErr.Code == code
	}
	return false
}

// ExitCode maps an error to the process exit code. Errors that did not
// come out of this package (cobra flag parsing, mostly) count as bad
// arguments.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var fqErr *Error
	if !errors.As(err, &fqErr) {
		return 1
	}
	switch fqErr.Code {
	case ErrArgs:
		return 1
	case ErrConnect:
		return 2
	case ErrNoData:
		return 3
	case ErrShaping:
		return 4
	default:
		return 1
	}
}
