package saubioapi

import "errors"

var (
	// ErrNotFound is returned when the API reports 404 for the requested resource.
	ErrNotFound = errors.New("saubio api: not found")

	// ErrBookingAlreadyAssigned is the claim endpoint's idempotency signal: the booking already belongs to the caller.
	ErrBookingAlreadyAssigned = errors.New("saubio api: booking already assigned")

	ErrUnauthorized = errors.New("saubio api: unauthorized")

	// ErrRejected is returned for 4xx answers that carry a domain error code.
	ErrRejected = errors.New("saubio api: request rejected")

	ErrInvalidResponse = errors.New("saubio api: invalid response")

	// ErrInternal covers transport failures and request construction errors.
	ErrInternal = errors.New("saubio api: internal error")
)

// CodeBookingAlreadyAssigned is the error code sent with a 409 from the claim endpoint.
const CodeBookingAlreadyAssigned = "BOOKING_ALREADY_ASSIGNED"
