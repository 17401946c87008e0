package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// SessionFetcher loads a hosted checkout session.
type SessionFetcher interface {
	CheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

// StripeSessions reads checkout sessions with the globally configured stripe.Key.
type StripeSessions struct{}

func (StripeSessions) CheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return session.Get(id, params)
}

// settled reports whether the session needs no further payment.
func settled(s *stripe.CheckoutSession) bool {
	if s.Status == stripe.CheckoutSessionStatusComplete {
		return true
	}
	switch s.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return true
	}
	return false
}

var _ SessionFetcher = StripeSessions{}
