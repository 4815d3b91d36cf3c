package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns on purpose wraps one of these;
// anything else is an internal failure.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Error carries a client-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func UnauthorizedError(message string) error {
	return newError(ErrUnauthorized, "%s", message)
}

func ConflictError(message string) error {
	return newError(ErrConflict, "%s", message)
}

func NotFoundError(message string) error {
	return newError(ErrNotFound, "%s", message)
}

func UnavailableError(message string) error {
	return newError(ErrServiceUnavailable, "%s", message)
}
