package planner

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"saubio/models"
	"saubio/services/estimator"
	"saubio/services/saubioapi"
	"saubio/services/selection"
	"saubio/services/shortnotice"
)

// SubmitResult tells the browser where to go after a successful submission.
type SubmitResult struct {
	Stage      Stage                  `json:"stage"`
	Outcome    Outcome                `json:"outcome,omitempty"`
	BookingID  string                 `json:"bookingId"`
	GuestToken string                 `json:"guestToken,omitempty"`
	Redirect   string                 `json:"redirect"`
	External   bool                   `json:"external"`
	Decision   *shortnotice.Decision  `json:"shortNotice,omitempty"`
	Summary    models.CheckoutSummary `json:"-"`
}

// Submit validates the stored draft and creates the booking.
//
// Concurrent submits for the same scope share one flight, so a double click creates one
// booking. The flight outlives the request that started it. Validation failures are returned as ValidationErrors and no request is sent.
// Any other failure keeps the draft so the user can retry.
func (c *Controller) Submit(ctx context.Context, scope string, p models.Principal) (*SubmitResult, error) {
	shared := context.WithoutCancel(ctx)
	v, err, dup := c.flights.Do("submit:"+scope, func() (any, error) {
		return c.submit(shared, scope, p)
	})
	if dup {
		c.logger.Info("duplicate submit collapsed", zap.String("scope", scope))
	}
	if err != nil {
		return nil, err
	}
	return v.(*SubmitResult), nil
}

func (c *Controller) submit(ctx context.Context, scope string, p models.Principal) (*SubmitResult, error) {
	authenticated := p.Authenticated()
	var st State = Collecting{}
	st, _ = Transition(st, SubmitRequested{Authenticated: authenticated})

	s, _ := c.session(ctx, scope)
	d := s.Draft()
	now := c.clock.Now()

	vc := ValidationContext{Now: now, Location: c.opts.Location}
	var decision *shortnotice.Decision
	window, scheduled := Schedule(d, c.opts.Location)
	if scheduled {
		dec := c.decide(d, window.Start, now, c.bestEffortRate(ctx, d, window.Start))
		decision = &dec
		vc.Decision = decision
		// The forced mode applies before the selection check.
		d.Mode = dec.Mode
	}
	if authenticated {
		vc.OwnBookings = c.ownBookings(ctx, p)
	}

	if errs := Validate(d, vc); len(errs) > 0 {
		st, _ = Transition(st, ValidationFailed{Errors: errs})
		c.recorder.Submission("invalid")
		c.logger.Info("submission rejected", zap.String("scope", scope), zap.Int("errors", len(errs)))
		return nil, errs
	}

	var token string
	if !authenticated {
		var err error
		if token, err = c.opts.GuestToken(); err != nil {
			c.recorder.Submission("failed")
			c.logger.Error("guest token generation failed", zap.Error(err))
			if !errors.Is(err, ErrGuestToken) {
				err = fmt.Errorf("%w: %v", ErrGuestToken, err)
			}
			return nil, err
		}
	}
	st, err := Transition(st, ValidationPassed{GuestToken: token})
	if err != nil {
		return nil, err
	}

	req := buildRequest(d, window, decision)
	req.GuestToken = token

	var record *models.BookingRecord
	if authenticated {
		record, err = c.api.CreateBooking(ctx, p.Token, req)
	} else {
		record, err = c.api.CreateGuestBooking(ctx, req)
	}
	if err != nil {
		_, _ = Transition(st, BookingFailed{Err: err})
		c.recorder.Submission("failed")
		c.logger.Error("booking creation failed",
			zap.String("scope", scope), zap.Bool("guest", !authenticated), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	if st, err = Transition(st, BookingCreated{Record: *record}); err != nil {
		return nil, err
	}

	c.dropDraft(ctx, scope)

	summary := c.summarize(*record, d, req, decision)
	res := &SubmitResult{BookingID: record.ID, Decision: decision, Summary: summary}

	if !authenticated {
		summary.GuestToken = token
		res.Summary = summary
		res.GuestToken = token
		res.Redirect = c.path(AccountPath) + "?" + summary.Encode().Encode()
		res.Stage = st.Stage()
		c.recorder.Submission("guest")
		c.logger.Info("guest booking submitted", zap.String("scope", scope), zap.String("bookingId", record.ID))
		return res, nil
	}

	if record.CheckoutURL != "" {
		st, _ = Transition(st, PaymentRequested{})
		res.Redirect = record.CheckoutURL
		res.External = true
		res.Outcome = OutcomeCheckout
	} else {
		st, _ = Transition(st, HandoffResolved{Outcome: OutcomeBookingsList})
		res.Redirect = c.path(BookingsPath)
		res.Outcome = OutcomeBookingsList
	}
	res.Stage = st.Stage()
	c.recorder.Submission("account")
	c.logger.Info("booking submitted",
		zap.String("scope", scope), zap.String("bookingId", record.ID), zap.String("userId", p.UserID))
	return res, nil
}

// bestEffortRate fetches the market rate used for the deposit hold; failures leave it unknown.
func (c *Controller) bestEffortRate(ctx context.Context, d models.PlannerDraft, start time.Time) *models.PriceEstimate {
	if !shortnotice.IsShortNotice(shortnotice.LeadTimeDays(start, c.clock.Now())) {
		return nil
	}
	est, err := c.api.EstimatePrice(ctx, priceRequest(d, start))
	if err != nil {
		c.logger.Warn("price estimate unavailable for submission", zap.Error(err))
		return nil
	}
	return est
}

// ownBookings lists the caller's active bookings for the conflict check. Failures skip the check.
func (c *Controller) ownBookings(ctx context.Context, p models.Principal) []models.TimeRange {
	records, err := c.api.ListMyBookings(ctx, p.Token)
	if err != nil {
		c.logger.Warn("own bookings unavailable, skipping conflict check", zap.String("userId", p.UserID), zap.Error(err))
		return nil
	}
	ranges := make([]models.TimeRange, 0, len(records))
	for _, r := range records {
		switch strings.ToLower(r.Status) {
		case "cancelled", "canceled", "declined":
			continue
		}
		if w, ok := r.Window(); ok {
			ranges = append(ranges, w)
		}
	}
	return ranges
}

func buildRequest(d models.PlannerDraft, window models.TimeRange, decision *shortnotice.Decision) models.BookingRequest {
	req := models.BookingRequest{
		Address:           d.Address,
		Contact:           d.Contact,
		Service:           d.Service,
		StartAt:           window.Start.Format(time.RFC3339),
		EndAt:             window.End.Format(time.RFC3339),
		Frequency:         d.Frequency,
		Mode:              d.Mode,
		EcoPreference:     d.EcoPreference,
		RequiredProviders: d.RequiredProviders,
		PreferredTeamID:   d.PreferredTeamID,
		Notes:             strings.TrimSpace(d.Notes),
		Attachments:       d.Attachments,
		CouponCode:        strings.TrimSpace(d.CouponCode),
		SoilLevel:         d.SoilLevel,
		Wishes:            d.ActiveWishes(),
		UpholsteryItems:   d.ActiveUpholstery(),
		AddOns:            d.ActiveExtras(),
	}
	if d.CleaningAddressEnabled && !d.CleaningAddress.Empty() {
		addr := d.CleaningAddress
		req.CleaningAddress = &addr
	}
	if d.SecondaryContactEnabled {
		contact := d.SecondaryContact
		req.SecondaryContact = &contact
	}
	if area := estimator.ParseSurface(d.SurfaceArea); area != nil && *area > 0 {
		req.SurfacesSquareMeters = *area
	}

	keepSelection := d.Mode == models.ModeManual
	if decision != nil {
		lead, short := decision.LeadTimeDays, decision.ShortNotice
		req.LeadTimeDays = &lead
		req.ShortNotice = &short
		req.EstimatedDepositCents = decision.DepositHoldCents
		req.Mode = decision.Mode
		keepSelection = keepSelection || decision.SelectionKept
	}
	if keepSelection {
		req.ProviderIDs = selection.FromDraft(d).IDs()
	}
	return req
}

// summarize builds the redirect snapshot, preferring server pricing over the local estimate.
func (c *Controller) summarize(record models.BookingRecord, d models.PlannerDraft, req models.BookingRequest, decision *shortnotice.Decision) models.CheckoutSummary {
	pricing := record.Pricing
	if pricing.TotalCents <= 0 {
		pricing = estimator.PricingCents(estimator.Breakdown(estimator.InputFromDraft(d)), c.opts.Currency)
	}
	if pricing.Currency == "" {
		pricing.Currency = c.opts.Currency
	}

	hours := d.DurationHours
	summary := models.CheckoutSummary{
		BookingID:     record.ID,
		Service:       d.Service,
		Frequency:     d.Frequency,
		Mode:          req.Mode,
		EcoPreference: d.EcoPreference,
		Address:       d.ServiceAddress(),
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		DurationHours: &hours,
		Currency:      pricing.Currency,
		SubtotalCents: &pricing.SubtotalCents,
		EcoCents:      &pricing.EcoCents,
		ExtrasCents:   &pricing.ExtrasCents,
		TaxCents:      &pricing.TaxCents,
		TotalCents:    &pricing.TotalCents,
		ProviderName:  record.ProviderName,
		ProviderIDs:   record.ProviderIDs,
	}
	if len(summary.ProviderIDs) == 0 {
		summary.ProviderIDs = req.ProviderIDs
	}

	short := record.ShortNotice
	if decision != nil {
		short = short || decision.ShortNotice
	}
	summary.ShortNotice = &short
	switch {
	case record.ShortNoticeDepositCents != nil:
		summary.DepositCents = record.ShortNoticeDepositCents
	case decision != nil:
		summary.DepositCents = decision.DepositHoldCents
	}
	return summary
}

// AccountResult is the outcome of entering the account page after a submission.
type AccountResult struct {
	Stage           Stage  `json:"stage"`
	BookingID       string `json:"bookingId"`
	Claimed         bool   `json:"claimed"`
	AlreadyAssigned bool   `json:"alreadyAssigned"`
	Redirect        string `json:"redirect"`
}

// EnterAccount runs when the account page is reached with a checkout summary.
// The draft is cleared first. A pending guest booking is claimed and the payment redirect
// is only produced once the claim resolved; "already assigned" counts as resolved.
func (c *Controller) EnterAccount(ctx context.Context, scope string, p models.Principal, summary models.CheckoutSummary) (*AccountResult, error) {
	c.dropDraft(ctx, scope)

	st, err := StateFromSummary(summary)
	if err != nil {
		return nil, err
	}
	if !p.Authenticated() {
		return &AccountResult{Stage: st.Stage(), BookingID: summary.BookingID}, ErrUnauthenticated
	}

	res := &AccountResult{BookingID: summary.BookingID}
	if pending, ok := st.(ClaimPending); ok {
		res.Claimed = true
		err := c.api.ClaimBooking(ctx, p.Token, models.ClaimRequest{BookingID: pending.BookingID, GuestToken: pending.GuestToken})
		switch {
		case err == nil:
			c.recorder.Claim("claimed")
		case errors.Is(err, saubioapi.ErrBookingAlreadyAssigned):
			res.AlreadyAssigned = true
			c.recorder.Claim("already_assigned")
			c.logger.Info("booking already assigned, treating claim as done", zap.String("bookingId", pending.BookingID))
		default:
			st, _ = Transition(st, ClaimFailed{Err: err})
			res.Stage = st.Stage()
			c.recorder.Claim("failed")
			c.logger.Error("booking claim failed", zap.String("bookingId", pending.BookingID), zap.Error(err))
			return res, fmt.Errorf("%w: %w", ErrClaimFailed, err)
		}
		if st, err = Transition(st, ClaimResolved{}); err != nil {
			return nil, err
		}
	}

	if st, err = Transition(st, PaymentRequested{}); err != nil {
		return nil, err
	}
	res.Stage = st.Stage()

	next := summary
	next.GuestToken = ""
	res.Redirect = c.path(PaymentPath) + "?" + next.Encode().Encode()
	return res, nil
}

// PaymentRedirect is the payment page URL for a booking id.
func (c *Controller) PaymentRedirect(bookingID string) string {
	return c.path(PaymentPath) + "?" + url.Values{"bookingId": {bookingID}}.Encode()
}
