package access

import "errors"

var (
	// ErrValidation marks malformed input (missing or unnormalizable MAC).
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized covers unknown or expired tokens, missing or inactive
	// devices and inactive users. Deliberately indistinguishable from
	// "not found" so callers cannot enumerate tokens or devices.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an authenticated identity with no qualifying
	// subscription.
	ErrForbidden = errors.New("forbidden")
)
