// Package common defines shared constants and sentinel errors used across
// the storefront client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrNetwork = errors.New("network unreachable")

	// HTTP status categories.
	ErrInvalidData = errors.New("invalid data")
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrServer      = errors.New("server error")
	ErrUnknown     = errors.New("unknown error")

	// Local validation, raised before any network call.
	ErrValidation = errors.New("validation error")

	// Session errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")
	ErrNoSession    = errors.New("no session")

	// Payment gateway errors.
	ErrPaymentNetwork   = errors.New("payment network error")
	ErrPaymentCancelled = errors.New("payment cancelled")
	ErrPaymentSecurity  = errors.New("payment security error")
	ErrPaymentFailed    = errors.New("payment failed")
)
