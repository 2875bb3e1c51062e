package errors

import "errors"

var (
	ErrUnknownSection = errors.New("unknown settings section")

	ErrCorruptDocument = errors.New("settings document could not be decoded")
)
