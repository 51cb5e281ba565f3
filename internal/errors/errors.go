package errors

import (
	"errors"
	"fmt"
)

// Code identifies a category of assistant-layer failure. Codes are part of
// the API contract: handlers map them to HTTP statuses and the UI keys
// messaging off them.
type Code string

const (
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidStatus     Code = "INVALID_STATUS"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidValue      Code = "INVALID_VALUE"
	CodeRequiresUserInput Code = "REQUIRES_USER_INPUT"
	CodeUnknownAction     Code = "UNKNOWN_ACTION"
	CodeUnknownTool       Code = "UNKNOWN_TOOL"
	CodeExecutionError    Code = "EXECUTION_ERROR"
)

// Error is a coded assistant error. Validation errors are raised synchronously
// and surfaced verbatim; store/handler failures are wrapped with
// CodeExecutionError at the executor boundaries.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with a user-facing message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the code from an error chain, defaulting to
// CodeExecutionError for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeExecutionError
}

// MessageOf returns the user-facing message of a coded error, or the raw
// error string for uncoded errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ErrValidation reports a field-level validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}
