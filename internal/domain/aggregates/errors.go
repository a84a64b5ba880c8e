package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes failure semantics across the progression engine.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "validation"
	CodeNotFound     ErrorCode = "not_found"
	CodeConflict     ErrorCode = "conflict"
	CodeIllegalState ErrorCode = "illegal_state"
	CodeLocked       ErrorCode = "locked"
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeForbidden    ErrorCode = "forbidden"
	CodeRetryable    ErrorCode = "retryable"
	CodeInternal     ErrorCode = "internal"
)

// Error is the canonical coded error.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a coded error with explicit operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with a code. Already-coded errors keep theirs.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

func NotFound(op, message string) error     { return NewError(CodeNotFound, op, message, nil) }
func Validation(op, message string) error   { return NewError(CodeValidation, op, message, nil) }
func IllegalState(op, message string) error { return NewError(CodeIllegalState, op, message, nil) }
func Locked(op, message string) error       { return NewError(CodeLocked, op, message, nil) }
func Conflict(op, message string) error     { return NewError(CodeConflict, op, message, nil) }
func Unauthorized(op, message string) error { return NewError(CodeUnauthorized, op, message, nil) }
func Forbidden(op, message string) error    { return NewError(CodeForbidden, op, message, nil) }

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code when available.
func CodeOf(err error) ErrorCode {
	var coded *Error
	if !errors.As(err, &coded) {
		return ""
	}
	return coded.Code
}

// MessageOf returns the human message of a coded error, or err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) && strings.TrimSpace(coded.Message) != "" {
		return coded.Message
	}
	return err.Error()
}
