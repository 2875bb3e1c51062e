package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusConflict is returned by conditional writes whose guard no
	// longer matches the stored booking, e.g. a concurrent transition won.
	ErrStatusConflict = errors.New("booking status changed concurrently")

	ErrAlreadyRated = errors.New("booking already rated")
)
