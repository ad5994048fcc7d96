// Package errors defines the coded errors returned across nodecanvas.
//
// Every error that leaves a package boundary carries a [Code]. Callers branch
// on the code rather than on message text:
//
//	if err := ix.Update(e); errors.Is(err, errors.ErrCodeInvalidGeometry) {
//	    // e keeps the bounds it was last indexed with
//	}
//
// Codes are grouped into a [Class], which decides how the CLI and the debug
// server report them. [Is] searches the whole error tree, so a code survives
// wrapping by fmt.Errorf and aggregation by errors.Join (diagram.Sync
// reports one error per rejected element that way).
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// The caller supplied something unusable.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidID       Code = "INVALID_ID"

	// A referenced element or file does not exist.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Class groups codes by where the fault lies.
type Class int

const (
	ClassInternal Class = iota
	ClassInput
	ClassNotFound
	ClassUnsupported
)

// Class returns the class of c. Unknown codes are internal.
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidGeometry,
		ErrCodeInvalidFormat, ErrCodeInvalidID:
		return ClassInput
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ClassNotFound
	case ErrCodeUnsupported:
		return ClassUnsupported
	default:
		return ClassInternal
	}
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that records cause beneath a formatted message.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's tree carries code.
func Is(err error, code Code) bool {
	switch x := err.(type) {
	case nil:
		return false
	case *Error:
		return x.Code == code || Is(x.Cause, code)
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if Is(e, code) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return Is(x.Unwrap(), code)
	default:
		return false
	}
}

// GetCode returns the code of the outermost *Error in err's chain, or "" if
// there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for a terminal: the messages along the chain of
// coded errors joined by ": ", without code prefixes. Errors without a code
// are rendered as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch {
	case e.Cause == nil:
		return e.Message
	case e.Message == "":
		return UserMessage(e.Cause)
	default:
		return e.Message + ": " + UserMessage(e.Cause)
	}
}
