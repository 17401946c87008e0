// Package payment decides whether a booking still needs paying and where the customer goes next.
// No payment data is collected here: payable bookings are sent to the hosted checkout.
package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"saubio/models"
)

// BookingReader is the part of the Saubio API the handoff reads.
type BookingReader interface {
	GetBooking(ctx context.Context, token, bookingID string) (*models.BookingRecord, error)
	GetPaymentIntent(ctx context.Context, token, bookingID string) (*models.PaymentIntent, error)
}

type Outcome string

const (
	OutcomeRedirect  Outcome = "redirect"
	OutcomeNoPayment Outcome = "no_payment"
)

// Handoff is what the payment page renders.
type Handoff struct {
	BookingID       string              `json:"bookingId"`
	RequiresPayment bool                `json:"requiresPayment"`
	Outcome         Outcome             `json:"outcome"`
	CheckoutURL     string              `json:"checkoutUrl,omitempty"`
	DetailURL       string              `json:"detailUrl,omitempty"`
	ShortNotice     bool                `json:"shortNotice"`
	DepositCents    int64               `json:"depositCents"`
	Pricing         models.PricingCents `json:"pricing"`
}

type Resolver struct {
	api      BookingReader
	sessions SessionFetcher
	basePath string
	logger   *zap.Logger
}

// NewResolver creates a Resolver. sessions may be nil when no Stripe key is configured.
func NewResolver(api BookingReader, sessions SessionFetcher, basePath string, logger *zap.Logger) *Resolver {
	return &Resolver{api: api, sessions: sessions, basePath: strings.TrimRight(basePath, "/"), logger: logger}
}

// RequiresPayment uses the API's explicit flag and otherwise infers it from the booking.
func RequiresPayment(b models.BookingRecord, intent *models.PaymentIntent) bool {
	if intent != nil && intent.Required != nil {
		return *intent.Required
	}
	return b.ShortNotice || b.DepositCents() > 0
}

// Resolve loads the booking and its payment intent in parallel and decides the next step.
func (r *Resolver) Resolve(ctx context.Context, p models.Principal, bookingID string) (*Handoff, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, ErrMissingBooking
	}

	var (
		booking *models.BookingRecord
		intent  *models.PaymentIntent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		booking, err = r.api.GetBooking(gctx, p.Token, bookingID)
		return err
	})
	g.Go(func() error {
		var err error
		intent, err = r.api.GetPaymentIntent(gctx, p.Token, bookingID)
		return err
	})
	if err := g.Wait(); err != nil {
		r.logger.Error("payment handoff fetch failed", zap.String("bookingId", bookingID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrHandoffUnavailable, err)
	}

	if intent == nil {
		intent = &models.PaymentIntent{}
	}
	h := &Handoff{
		BookingID:    bookingID,
		ShortNotice:  booking.ShortNotice,
		DepositCents: booking.DepositCents(),
		Pricing:      booking.Pricing,
	}
	if !RequiresPayment(*booking, intent) {
		return r.noPayment(h), nil
	}

	checkoutURL := intent.CheckoutURL
	if checkoutURL == "" {
		checkoutURL = booking.CheckoutURL
	}
	if checkoutURL == "" && intent.StripeSessionID != "" && r.sessions != nil {
		sess, err := r.sessions.CheckoutSession(ctx, intent.StripeSessionID)
		if err != nil {
			r.logger.Error("checkout session lookup failed", zap.String("bookingId", bookingID), zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrHandoffUnavailable, err)
		}
		if settled(sess) {
			return r.noPayment(h), nil
		}
		if sess.Status != stripe.CheckoutSessionStatusExpired {
			checkoutURL = sess.URL
		}
	}
	if checkoutURL == "" {
		return nil, fmt.Errorf("%w: no checkout url for booking %s", ErrHandoffUnavailable, bookingID)
	}

	h.RequiresPayment = true
	h.Outcome = OutcomeRedirect
	h.CheckoutURL = checkoutURL
	return h, nil
}

func (r *Resolver) noPayment(h *Handoff) *Handoff {
	h.RequiresPayment = false
	h.Outcome = OutcomeNoPayment
	h.DetailURL = r.basePath + "/bookings/" + url.PathEscape(h.BookingID)
	return h
}
