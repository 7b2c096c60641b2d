package domain

import "errors"

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a write that would violate a uniqueness rule.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when a referenced user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage wraps failures of the underlying store.
	ErrStorage = errors.New("storage failure")

	// ErrUsernameTaken is reported by repositories when the username unique constraint rejects an insert.
	ErrUsernameTaken = errors.New("username already taken")
)

// Error pairs an error class with a message that is safe to show to clients.
type Error struct {
	Class  error
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Detail + ": " + e.Cause.Error()
	}
	return e.Detail
}

// Is reports whether target is the class of e.
func (e *Error) Is(target error) bool {
	return target == e.Class
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func validationError(detail string) error {
	return &Error{Class: ErrValidation, Detail: detail}
}

func conflictError(detail string) error {
	return &Error{Class: ErrConflict, Detail: detail}
}

func notFoundError(detail string) error {
	return &Error{Class: ErrNotFound, Detail: detail}
}

func storageError(detail string, cause error) error {
	return &Error{Class: ErrStorage, Detail: detail, Cause: cause}
}
