// Package errors provides structured error types for kmltool.
//
// Two kinds of failure surface to callers of the core:
//   - IMPORT_ERROR: a bad source drawing or document, an ambiguous archive,
//     or a coordinate transform that cannot be set up
//   - EXPORT_ERROR: serialization, packaging or writing of an archive failed
//
// Neither is retried. The caller corrects the input and runs the whole
// operation again. Narrower codes (PROJECTION_ERROR, INVALID_*) describe the
// cause and are usually found wrapped inside one of the two kinds.
//
// # Usage
//
//	err := errors.Import(cause, "could not import DXF file %s", path)
//	if errors.Is(err, errors.ErrCodeImport) {
//	    // report and let the user pick another file
//	}
//
// Broken tree invariants are programming defects and panic instead of
// returning one of these errors.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Top-level kinds
	ErrCodeImport Code = "IMPORT_ERROR"
	ErrCodeExport Code = "EXPORT_ERROR"

	// Causes
	ErrCodeProjection    Code = "PROJECTION_ERROR"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

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

// Import returns an IMPORT_ERROR. cause may be nil.
func Import(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeImport, cause, format, args...)
}

// Export returns an EXPORT_ERROR. cause may be nil.
func Export(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeExport, cause, format, args...)
}

// Is reports whether err has the given error code.
// It walks the whole chain, so an IMPORT_ERROR wrapping a PROJECTION_ERROR
// matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the message of the innermost cause when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
