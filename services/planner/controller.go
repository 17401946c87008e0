// Package planner drives the booking planner: draft editing, validation, submission for
// guests and account holders, and the claim step that precedes payment.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"saubio/models"
	"saubio/services/draft"
	"saubio/services/estimator"
	"saubio/services/lookup"
	"saubio/services/matching"
	"saubio/services/selection"
	"saubio/services/shortnotice"
)

// Frontend pages of the booking flow, relative to the configured base path.
const (
	PlannerPath  = "/bookings/new"
	AccountPath  = "/bookings/account"
	PaymentPath  = "/bookings/payment"
	BookingsPath = "/bookings"
)

// Options configures a Controller. Zero values fall back to sensible defaults.
type Options struct {
	Currency         string
	PlatformFeeCents int64
	BasePath         string
	Location         *time.Location
	LookupDebounce   time.Duration

	Clock    TimeProvider
	Recorder Recorder
	// GuestToken generates guest tokens; defaults to NewGuestToken.
	GuestToken func() (string, error)
}

type Controller struct {
	store   draft.Store
	api     BookingAPI
	lookups *lookup.Tracker
	flights singleflight.Group
	// writes orders provider merges against draft clears.
	writes   sync.Mutex
	opts     Options
	clock    TimeProvider
	recorder Recorder
	logger   *zap.Logger
}

func NewController(store draft.Store, api BookingAPI, opts Options, logger *zap.Logger) *Controller {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.GuestToken == nil {
		opts.GuestToken = NewGuestToken
	}
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}
	c := &Controller{
		store:    store,
		api:      api,
		lookups:  lookup.NewTracker(),
		opts:     opts,
		clock:    opts.Clock,
		recorder: opts.Recorder,
		logger:   logger,
	}
	if c.clock == nil {
		c.clock = &RealTimeProvider{}
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	return c
}

// NewGuestToken returns a random (version 4) UUID read from crypto/rand.
// There is no weaker fallback: the token gates the ownership claim.
func NewGuestToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGuestToken, err)
	}
	return id.String(), nil
}

// DraftView is a draft as returned to the browser.
type DraftView struct {
	Draft    models.PlannerDraft `json:"draft"`
	Restored bool                `json:"restored"`
	Applied  []string            `json:"applied,omitempty"`
}

// session loads the stored draft for scope and runs the hydration protocol.
func (c *Controller) session(ctx context.Context, scope string) (*draft.Session, bool) {
	stored, _ := c.store.Load(ctx, scope)
	s := draft.NewSession()
	restored := s.Hydrate(stored)
	s.Release()
	return s, restored
}

// Draft returns the stored draft for scope, or the defaults.
func (c *Controller) Draft(ctx context.Context, scope string) DraftView {
	s, restored := c.session(ctx, scope)
	return DraftView{Draft: s.Draft(), Restored: restored}
}

// UpdateDraft applies a partial update and persists the whole draft.
// A service change resets every other field not in the same patch.
func (c *Controller) UpdateDraft(ctx context.Context, scope string, patch map[string]json.RawMessage) DraftView {
	s, restored := c.session(ctx, scope)
	applied := s.Apply(patch)
	_, durationTouched := patch["durationHours"]
	s.Update(func(d *models.PlannerDraft) {
		suggestDuration(d, durationTouched)
	})
	c.store.Save(ctx, scope, s.Draft())
	return DraftView{Draft: s.Draft(), Restored: restored, Applied: applied}
}

// SetService switches the service, resetting the rest of the draft.
func (c *Controller) SetService(ctx context.Context, scope string, service models.ServiceCategory) (DraftView, error) {
	if !service.Valid() {
		return DraftView{}, ValidationErrors{{Field: "service", Code: CodeInvalid, Message: "Unknown service."}}
	}
	s, restored := c.session(ctx, scope)
	s.SetService(service)
	c.store.Save(ctx, scope, s.Draft())
	return DraftView{Draft: s.Draft(), Restored: restored, Applied: []string{"service"}}, nil
}

// ResetDraft drops the stored draft and returns the defaults.
func (c *Controller) ResetDraft(ctx context.Context, scope string) DraftView {
	c.dropDraft(ctx, scope)
	return DraftView{Draft: models.DefaultDraft()}
}

// dropDraft clears the stored draft and supersedes provider lookups still in flight,
// so a late answer cannot write the draft back.
func (c *Controller) dropDraft(ctx context.Context, scope string) {
	c.writes.Lock()
	defer c.writes.Unlock()
	c.store.Clear(ctx, scope)
	c.lookups.Invalidate(lookup.Key(scope, "providers"))
}

// InBookingFlow reports whether path is one of the three booking pages.
func (c *Controller) InBookingFlow(path string) bool {
	path = strings.SplitN(path, "?", 2)[0]
	for _, p := range []string{PlannerPath, AccountPath, PaymentPath} {
		full := c.path(p)
		if path == full || strings.HasPrefix(path, full+"/") {
			return true
		}
	}
	return false
}

// ExitFlow clears the draft when next leaves the booking pages. It reports whether it did.
func (c *Controller) ExitFlow(ctx context.Context, scope, next string) bool {
	if c.InBookingFlow(next) {
		return false
	}
	c.dropDraft(ctx, scope)
	c.logger.Debug("booking flow exited", zap.String("scope", scope), zap.String("next", next))
	return true
}

// suggestDuration keeps the area memo current and pre-fills the duration for a new area
// unless the same update set the duration explicitly.
func suggestDuration(d *models.PlannerDraft, durationTouched bool) {
	if d.Service == models.ServiceUpholstery {
		d.AreaSuggestion = nil
		return
	}
	area := estimator.ParseSurface(d.SurfaceArea)
	hours := estimator.EstimateCleaningHours(area)
	if hours == nil {
		d.AreaSuggestion = nil
		return
	}
	if d.AreaSuggestion != nil && d.AreaSuggestion.Area == *area {
		return
	}
	d.AreaSuggestion = &models.AreaSuggestion{Area: *area, Hours: *hours}
	if !durationTouched {
		d.DurationHours = *hours
	}
}

// Quote is the live price and policy view of a draft.
type Quote struct {
	Breakdown          models.CheckoutBreakdown `json:"breakdown"`
	Pricing            models.PricingCents      `json:"pricing"`
	SuggestedHours     *float64                 `json:"suggestedHours,omitempty"`
	ShortNotice        *shortnotice.Decision    `json:"shortNotice,omitempty"`
	PendingProviders   int                      `json:"pendingProviders"`
	SubmitBlocked      bool                     `json:"submitBlocked"`
	MatchingContextKey string                   `json:"matchingContextKey"`
}

// Quote derives the estimate for the stored draft. The market rate for the deposit hold is
// looked up only for short notice starts and is debounced per scope.
func (c *Controller) Quote(ctx context.Context, scope string) (*Quote, error) {
	s, _ := c.session(ctx, scope)
	d := s.Draft()

	breakdown := estimator.Breakdown(estimator.InputFromDraft(d))
	sel := selection.FromDraft(d)
	q := &Quote{
		Breakdown:          breakdown,
		Pricing:            estimator.PricingCents(breakdown, c.opts.Currency),
		SuggestedHours:     estimator.EstimateCleaningHours(estimator.ParseSurface(d.SurfaceArea)),
		PendingProviders:   sel.Pending(d.RequiredProviders),
		SubmitBlocked:      sel.Blocked(d.Mode, d.RequiredProviders),
		MatchingContextKey: matching.KeyForDraft(d),
	}

	window, ok := Schedule(d, c.opts.Location)
	if !ok {
		return q, nil
	}
	now := c.clock.Now()
	decision := c.decide(d, window.Start, now, nil)
	if decision.ShortNotice {
		rate, err := lookup.Do(ctx, c.lookups, lookup.Key(scope, "price"), c.opts.LookupDebounce,
			func(ctx context.Context) (*models.PriceEstimate, error) {
				return c.api.EstimatePrice(ctx, priceRequest(d, window.Start))
			})
		switch {
		case errors.Is(err, lookup.ErrSuperseded), errors.Is(err, context.Canceled):
			return nil, err
		case err != nil:
			c.logger.Warn("price estimate unavailable", zap.String("scope", scope), zap.Error(err))
		default:
			decision = c.decide(d, window.Start, now, rate)
		}
	}
	if decision.ModeForced {
		q.SubmitBlocked = false
	}
	q.ShortNotice = &decision
	return q, nil
}

func (c *Controller) decide(d models.PlannerDraft, start, now time.Time, rate *models.PriceEstimate) shortnotice.Decision {
	in := shortnotice.Input{
		Start:             start,
		Now:               now,
		RequestedMode:     d.Mode,
		SelectedProviders: len(d.SelectedProviderIDs),
		DurationHours:     d.DurationHours,
		PlatformFeeCents:  c.opts.PlatformFeeCents,
	}
	if rate != nil {
		in.AverageHourlyRateCents = rate.AverageHourlyRateCents
		if rate.PlatformFeeCents > 0 {
			in.PlatformFeeCents = rate.PlatformFeeCents
		}
	}
	return shortnotice.Evaluate(in)
}

func priceRequest(d models.PlannerDraft, start time.Time) models.PriceEstimateRequest {
	return models.PriceEstimateRequest{
		Service:       d.Service,
		PostalCode:    d.ServiceAddress().PostalCode,
		DurationHours: d.DurationHours,
		EcoPreference: d.EcoPreference,
		StartAt:       start.Format(time.RFC3339),
	}
}

func (c *Controller) path(p string) string {
	return strings.TrimRight(c.opts.BasePath, "/") + p
}
