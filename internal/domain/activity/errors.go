package activity

import "errors"

var (
	// ErrInvalidInput indicates a nil or malformed activity entry.
	ErrInvalidInput = errors.New("invalid activity input")
)
