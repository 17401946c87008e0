package payment

import "errors"

var (
	// ErrHandoffUnavailable means the booking or its payment intent could not be loaded.
	// The page offers a retry; nothing is retried automatically.
	ErrHandoffUnavailable = errors.New("payment: handoff unavailable")

	ErrUnauthenticated = errors.New("payment: authentication required")

	ErrMissingBooking = errors.New("payment: booking id is required")
)
