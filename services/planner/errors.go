package planner

import "errors"

var (
	// ErrIllegalTransition is returned by Transition for an event the current state does not accept.
	ErrIllegalTransition = errors.New("planner: illegal state transition")

	// ErrGuestToken means no secure guest token could be generated. The submission can be retried.
	ErrGuestToken = errors.New("planner: failed to generate guest token")

	// ErrSubmission wraps booking creation failures. The draft is kept for a retry.
	ErrSubmission = errors.New("planner: booking submission failed")

	// ErrClaimFailed is a claim failure other than "already assigned". No payment redirect happens.
	ErrClaimFailed = errors.New("planner: booking claim failed")

	ErrUnauthenticated = errors.New("planner: authentication required")

	ErrMissingBooking = errors.New("planner: checkout summary carries no booking id")

	// ErrLookupUnavailable marks a failed lookup; the widget shows a retry, the form stays usable.
	ErrLookupUnavailable = errors.New("planner: lookup unavailable")
)
