// Package store defines the errors shared by persistence implementations.
package store

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a persistence error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same status, so WithMessage variants still
// satisfy errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a copy with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)

// Entity-specific variants. They match their sentinel under errors.Is.
var (
	ErrUserNotFound     = ErrNotFound.WithMessage("user not found")
	ErrEmailExists      = ErrAlreadyExists.WithMessage("email already exists")
	ErrSessionNotFound  = ErrNotFound.WithMessage("session not found")
	ErrJournalNotFound  = ErrNotFound.WithMessage("journal not found")
	ErrTableNotFound    = ErrNotFound.WithMessage("journal table not found")
	ErrActivityNotFound = ErrNotFound.WithMessage("activity not found")
	ErrTagNotFound      = ErrNotFound.WithMessage("tag not found")
	ErrEntryNotFound    = ErrNotFound.WithMessage("entry not found")
)

// Classify maps a driver error onto the sentinels. Unique violations become
// ErrAlreadyExists; foreign key, check, and not-null violations become
// ErrInvalidInput carrying the driver message. Other errors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrAlreadyExists.WithMessage(constraintMessage(msg)).WithCause(err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return ErrInvalidInput.WithMessage(constraintMessage(msg)).WithCause(err)
	default:
		return err
	}
}

// constraintMessage strips the driver prefix ("constraint failed: ... (787)") down to
// the sqlite sentence.
func constraintMessage(msg string) string {
	for _, marker := range []string{"UNIQUE", "FOREIGN KEY", "CHECK", "NOT NULL"} {
		if i := strings.Index(msg, marker+" constraint failed"); i >= 0 {
			msg = msg[i:]
			break
		}
	}
	if i := strings.LastIndex(msg, " ("); i > 0 && strings.HasSuffix(msg, ")") {
		msg = msg[:i]
	}
	return msg
}
