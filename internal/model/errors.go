package model

import "errors"

// Error kinds. Every domain error unwraps to exactly one of these, and the
// HTTP layer maps the kind to a status code.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a domain error with a client-facing message.
type Error struct {
	kind    error
	message string
}

func newError(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) holds for every
// not-found sentinel.
func (e *Error) Unwrap() error { return e.kind }

// InvalidArgument builds a validation error with a specific message.
func InvalidArgument(message string) error {
	return newError(ErrInvalidArgument, message)
}

// NotFound builds a not-found error with a specific message.
func NotFound(message string) error {
	return newError(ErrNotFound, message)
}

// Conflict builds a conflict error with a specific message.
func Conflict(message string) error {
	return newError(ErrConflict, message)
}

var (
	// ErrNotOwner is returned by the ownership guard.
	ErrNotOwner = newError(ErrForbidden, "you do not have permission to modify this resource")

	// ErrInvalidID is returned when a path or body ID is not a valid identifier.
	ErrInvalidID = newError(ErrInvalidArgument, "invalid id")

	// ErrNothingToUpdate is returned when an update request carries no fields.
	ErrNothingToUpdate = newError(ErrInvalidArgument, "at least one field is required to update")
)

// Owned is implemented by every entity that has exactly one owning user.
type Owned interface {
	OwnerID() string
}
