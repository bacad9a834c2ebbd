// Package errs is the error taxonomy shared by the tree engine, the stores and the CLI.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeNotFound         Code = "not_found"
	CodeInvalidNesting   Code = "invalid_nesting"
	CodeInvalidOperation Code = "invalid_operation"
	CodeValidation       Code = "validation"
	CodeConflict         Code = "conflict"
	CodeForbidden        Code = "forbidden"
	CodeInternal         Code = "internal"
)

// Sentinels for errors.Is. Any *Error with the same Code matches.
var (
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrInvalidNesting   = &Error{Code: CodeInvalidNesting}
	ErrInvalidOperation = &Error{Code: CodeInvalidOperation}
	ErrValidation       = &Error{Code: CodeValidation}
	ErrConflict         = &Error{Code: CodeConflict}
	ErrForbidden        = &Error{Code: CodeForbidden}
)

// Error carries a Code, the operation that failed, and an optional cause.
type Error struct {
	Code    Code
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

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, op, message string) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message)}
}

// Wrap annotates err with code and op. A nil err stays nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: err.Error(), Cause: err}
}

// WithOp returns err re-tagged with op when it is an *Error, keeping its code and message.
func WithOp(err error, op string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	return &Error{Code: e.Code, Op: strings.TrimSpace(op), Message: e.Message, Cause: e.Cause}
}

func NotFound(op, kind, id string) error {
	return New(CodeNotFound, op, fmt.Sprintf("%s not found: %s", kind, id))
}

func InvalidNesting(op, parentKind, childKind string) error {
	return New(CodeInvalidNesting, op, fmt.Sprintf("%s cannot contain %s", parentKind, childKind))
}

func InvalidOperation(op, message string) error {
	return New(CodeInvalidOperation, op, message)
}

func Validation(op, message string) error {
	return New(CodeValidation, op, message)
}

func Conflict(op string, err error) error {
	return Wrap(CodeConflict, op, err)
}

func Forbidden(op, message string) error {
	return New(CodeForbidden, op, message)
}

// CodeOf extracts the Code of err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
