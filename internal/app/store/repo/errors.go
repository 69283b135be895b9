// internal/app/store/repo/errors.go
package repo

import "errors"

var (
	// ErrDuplicateIdentity is returned when a user create collides with an
	// existing email (case-insensitive) or employee id.
	ErrDuplicateIdentity = errors.New("a user with this email or employee id already exists")

	// ErrNotFound is returned for operations on ids that do not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateResponse is returned when a user answers the same
	// question a second time. The first response stands untouched.
	ErrDuplicateResponse = errors.New("this question has already been answered")

	// ErrBadMessage is returned when a message draft fails validation
	// (unknown type, missing group, malformed MCQ payload).
	ErrBadMessage = errors.New("invalid message")
)
