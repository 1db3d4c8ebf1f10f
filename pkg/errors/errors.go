// Package errors gives every failure that leaves a package a [Code], so the
// digest run can decide how to react without string matching.
//
// The codes that matter to a run fall in three groups:
//
//   - INVALID_CONFIG stops the run before anything is drawn.
//   - CONTENT_FETCH marks one source that failed. Its panel falls back to
//     its label. NETWORK_ERROR, TIMEOUT, RATE_LIMITED, UNAUTHORIZED,
//     NOT_FOUND and NOT_CONFIGURED describe why, beneath it in the chain.
//   - RENDER_FAILED marks one block the backend could not draw. The block is
//     drawn as text or dropped.
//
// Typical use:
//
//	if cols < 1 {
//	    return errors.New(errors.ErrCodeInvalidConfig, "grid needs at least one column, got %d", cols)
//	}
//	...
//	return errors.Wrap(errors.ErrCodeContentFetch, err, "source %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class. The server reports it verbatim.
type Code string

const (
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeNotConfigured Code = "NOT_CONFIGURED"

	ErrCodeContentFetch Code = "CONTENT_FETCH"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	ErrCodeRender      Code = "RENDER_FAILED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error without a cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error caused by cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for e := (*Error)(nil); errors.As(err, &e); err = e.Cause {
		if e.Code == code {
			return true
		}
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause of the outermost *Error.
// Other errors are returned as their Error string.
func UserMessage(err error) string {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConfiguration reports whether err must stop the run.
func IsConfiguration(err error) bool { return Is(err, ErrCodeInvalidConfig) }
