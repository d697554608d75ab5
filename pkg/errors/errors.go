// Package errors provides structured, source-positioned error types for
// the panemux resolver.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the resolver, CLI, and serve surface
//   - Machine-readable error codes for programmatic handling
//   - Caret-style diagnostics: every resolver error carries the byte offset
//     and length of the offending node in the source text
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: malformed values, unknown properties, bad constraints
//   - TEMPLATE_*: template registry and application failures
//   - RUN_*: run-action resolution conflicts
//   - STRUCTURE_*: layout-level structural violations
//   - DOCUMENT_*: document syntax failures from the node-tree parser
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidValue, "size should be greater than 0").At(off, length)
//	if errors.Is(err, errors.ErrCodeInvalidValue) {
//	    // Handle value error
//	}
//
//	// Positions survive the chain:
//	off, length, ok := errors.Position(err)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Value and property errors
	ErrCodeInvalidValue    Code = "INVALID_VALUE"
	ErrCodeInvalidProperty Code = "INVALID_PROPERTY"
	ErrCodeInvalidName     Code = "INVALID_NAME"
	ErrCodeInvalidLocation Code = "INVALID_LOCATION"

	// Template errors
	ErrCodeTemplateCycle     Code = "TEMPLATE_CYCLE"
	ErrCodeTemplateDuplicate Code = "TEMPLATE_DUPLICATE"
	ErrCodeTemplateShape     Code = "TEMPLATE_SHAPE"
	ErrCodeTemplateChildren  Code = "TEMPLATE_CHILDREN"

	// Run-action errors
	ErrCodeRunConflict Code = "RUN_CONFLICT"
	ErrCodeRunOrphan   Code = "RUN_ORPHAN"

	// Structural errors
	ErrCodeStructure Code = "STRUCTURE"

	// Document syntax errors
	ErrCodeDocumentSyntax Code = "DOCUMENT_SYNTAX"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, an optional source position,
// and an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Offset  int    // Byte offset of the offending node in the source
	Length  int    // Byte length of the offending node
	Sited   bool   // Whether Offset/Length are meaningful
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

// At attaches a source position (byte offset and length) to the error and
// returns it, allowing call-site chaining.
func (e *Error) At(offset, length int) *Error {
	e.Offset = offset
	e.Length = length
	e.Sited = true
	return e
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

// Position extracts the source position from an error. The third return
// value reports whether a position was attached anywhere in the chain.
func Position(err error) (offset, length int, ok bool) {
	var e *Error
	if errors.As(err, &e) && e.Sited {
		return e.Offset, e.Length, true
	}
	return 0, 0, false
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
