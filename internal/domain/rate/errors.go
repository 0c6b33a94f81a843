package rate

import "errors"

var (
	// ErrInvalidTier indicates a tier failed validation.
	ErrInvalidTier = errors.New("invalid rate tier")
)
