package quizhall

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a uniquely named resource already exists
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when the caller may not act on a resource
	ErrForbidden = errors.New("forbidden")
)
