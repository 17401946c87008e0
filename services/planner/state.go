package planner

import (
	"fmt"

	"saubio/models"
)

// Stage names a flow state on the wire.
type Stage string

const (
	StageCollecting             Stage = "collecting"
	StageValidating             Stage = "validating"
	StageCreatingGuestBooking   Stage = "creating_guest_booking"
	StageCreatingAccountBooking Stage = "creating_account_booking"
	StageClaimPending           Stage = "claim_pending"
	StageClaimed                Stage = "claimed"
	StageAwaitingPayment        Stage = "awaiting_payment"
	StageTerminal               Stage = "terminal"
)

// State is one of the flow states below. The set is closed: only this package implements it.
type State interface {
	Stage() Stage
	state()
}

type Collecting struct{}

type Validating struct {
	Authenticated bool
}

type CreatingGuestBooking struct {
	GuestToken string
}

type CreatingAccountBooking struct{}

// ClaimPending: the booking exists but is unowned until the guest token is claimed.
type ClaimPending struct {
	BookingID  string
	GuestToken string
}

type Claimed struct {
	BookingID   string
	CheckoutURL string
}

type AwaitingPayment struct {
	BookingID   string
	CheckoutURL string
}

// Outcome says how the flow ended.
type Outcome string

const (
	OutcomeBookingsList Outcome = "bookings_list"
	OutcomeNoPayment    Outcome = "no_payment"
	OutcomeCheckout     Outcome = "checkout"
	OutcomeExited       Outcome = "exited"
)

type Terminal struct {
	BookingID string
	Outcome   Outcome
}

func (Collecting) Stage() Stage             { return StageCollecting }
func (Validating) Stage() Stage             { return StageValidating }
func (CreatingGuestBooking) Stage() Stage   { return StageCreatingGuestBooking }
func (CreatingAccountBooking) Stage() Stage { return StageCreatingAccountBooking }
func (ClaimPending) Stage() Stage           { return StageClaimPending }
func (Claimed) Stage() Stage                { return StageClaimed }
func (AwaitingPayment) Stage() Stage        { return StageAwaitingPayment }
func (Terminal) Stage() Stage               { return StageTerminal }

func (Collecting) state()             {}
func (Validating) state()             {}
func (CreatingGuestBooking) state()   {}
func (CreatingAccountBooking) state() {}
func (ClaimPending) state()           {}
func (Claimed) state()                {}
func (AwaitingPayment) state()        {}
func (Terminal) state()               {}

// Event drives Transition.
type Event interface {
	event()
}

type SubmitRequested struct {
	Authenticated bool
}

type ValidationFailed struct {
	Errors ValidationErrors
}

// ValidationPassed carries the guest token for unauthenticated submissions.
type ValidationPassed struct {
	GuestToken string
}

type BookingCreated struct {
	Record models.BookingRecord
}

type BookingFailed struct {
	Err error
}

// ClaimResolved covers both a fresh claim and the "already assigned" answer.
type ClaimResolved struct{}

type ClaimFailed struct {
	Err error
}

type PaymentRequested struct{}

// HandoffResolved ends the flow after the payment step was decided.
type HandoffResolved struct {
	Outcome Outcome
}

// Exited is navigation leaving the booking pages.
type Exited struct{}

func (SubmitRequested) event()  {}
func (ValidationFailed) event() {}
func (ValidationPassed) event() {}
func (BookingCreated) event()   {}
func (BookingFailed) event()    {}
func (ClaimResolved) event()    {}
func (ClaimFailed) event()      {}
func (PaymentRequested) event() {}
func (HandoffResolved) event()  {}
func (Exited) event()           {}

// Transition is the single reducer of the planner flow.
func Transition(s State, e Event) (State, error) {
	if _, ok := e.(Exited); ok {
		if t, done := s.(Terminal); done {
			return t, nil
		}
		return Terminal{BookingID: bookingIDOf(s), Outcome: OutcomeExited}, nil
	}

	switch st := s.(type) {
	case Collecting:
		if ev, ok := e.(SubmitRequested); ok {
			return Validating{Authenticated: ev.Authenticated}, nil
		}

	case Validating:
		switch ev := e.(type) {
		case ValidationFailed:
			return Collecting{}, nil
		case ValidationPassed:
			if st.Authenticated {
				return CreatingAccountBooking{}, nil
			}
			if ev.GuestToken == "" {
				return s, fmt.Errorf("%w: guest submission without token", ErrIllegalTransition)
			}
			return CreatingGuestBooking{GuestToken: ev.GuestToken}, nil
		}

	case CreatingGuestBooking:
		switch ev := e.(type) {
		case BookingCreated:
			return ClaimPending{BookingID: ev.Record.ID, GuestToken: st.GuestToken}, nil
		case BookingFailed:
			return Collecting{}, nil
		}

	case CreatingAccountBooking:
		switch ev := e.(type) {
		case BookingCreated:
			return Claimed{BookingID: ev.Record.ID, CheckoutURL: ev.Record.CheckoutURL}, nil
		case BookingFailed:
			return Collecting{}, nil
		}

	case ClaimPending:
		switch e.(type) {
		case ClaimResolved:
			return Claimed{BookingID: st.BookingID}, nil
		case ClaimFailed:
			return st, nil
		}

	case Claimed:
		switch ev := e.(type) {
		case PaymentRequested:
			return AwaitingPayment{BookingID: st.BookingID, CheckoutURL: st.CheckoutURL}, nil
		case HandoffResolved:
			return Terminal{BookingID: st.BookingID, Outcome: ev.Outcome}, nil
		}

	case AwaitingPayment:
		if ev, ok := e.(HandoffResolved); ok {
			return Terminal{BookingID: st.BookingID, Outcome: ev.Outcome}, nil
		}
	}
	return s, fmt.Errorf("%w: %T in %s", ErrIllegalTransition, e, s.Stage())
}

// StateFromSummary rebuilds the post-submission state carried across a redirect.
func StateFromSummary(summary models.CheckoutSummary) (State, error) {
	if summary.BookingID == "" {
		return Collecting{}, ErrMissingBooking
	}
	if summary.HasPendingClaim() {
		return ClaimPending{BookingID: summary.BookingID, GuestToken: summary.GuestToken}, nil
	}
	return Claimed{BookingID: summary.BookingID}, nil
}

func bookingIDOf(s State) string {
	switch st := s.(type) {
	case ClaimPending:
		return st.BookingID
	case Claimed:
		return st.BookingID
	case AwaitingPayment:
		return st.BookingID
	case Terminal:
		return st.BookingID
	}
	return ""
}
