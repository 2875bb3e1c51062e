package errors

import "errors"

var (
	ErrNotFound = errors.New("driver not found")

	ErrInvalidID = errors.New("invalid driver ID format")

	ErrDuplicateLicense = errors.New("license number already registered")

	ErrAlreadyRegistered = errors.New("user already has a driver profile")
)
