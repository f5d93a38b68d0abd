package docfetchd

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are deliberately coarse rather than mirroring every Go stdlib
// error. They are separate from the index fetch_status values, and the
// CLI exits with status 1 whatever the code.
const (
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
)

// Error represents an application-level error. Its Code is machine
// readable and small in cardinality; its Message is meant for display.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to a wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a convenience wrapper that formats an Error's message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing error, preserving it
// for Unwrap.
func Wrap(err error, code string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrorCode unwraps an error to find its application error code.
// Returns EINTERNAL if err is not an *Error (or wraps one).
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an error to find its human-readable message.
// Returns "internal error" if err is not an *Error (or wraps one), to
// avoid leaking unstructured internal detail to callers.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
