package validator

import "errors"

// The error text doubles as the per-field message shown to the user.
var (
	ErrRequired         = errors.New("is required")
	ErrTooShort         = errors.New("is too short")
	ErrInvalidPhone     = errors.New("must be a valid phone number (10-15 digits)")
	ErrInvalidEmail     = errors.New("must be a valid email address")
	ErrInvalidURL       = errors.New("must be a valid URL (e.g., https://example.com)")
	ErrInvalidTimestamp = errors.New("must be an ISO-8601 timestamp")
)
