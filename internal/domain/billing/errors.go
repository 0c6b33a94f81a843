package billing

import "errors"

var (
	// ErrInvalidBaseRate indicates a missing or non-positive hourly rate.
	// Billing never silently defaults in a finance-affecting path.
	ErrInvalidBaseRate = errors.New("invalid base hourly rate")
	// ErrInvalidDuration indicates a non-positive estimate duration.
	ErrInvalidDuration = errors.New("invalid estimate duration")
)
