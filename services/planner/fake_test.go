package planner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"saubio/models"
	"saubio/services/draft"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeRecorder struct {
	mu          sync.Mutex
	submissions []string
	claims      []string
}

func (r *fakeRecorder) Submission(o string) {
	r.mu.Lock()
	r.submissions = append(r.submissions, o)
	r.mu.Unlock()
}

func (r *fakeRecorder) Claim(o string) {
	r.mu.Lock()
	r.claims = append(r.claims, o)
	r.mu.Unlock()
}

// fakeAPI records calls and returns canned answers.
type fakeAPI struct {
	mu sync.Mutex

	created      []models.BookingRequest
	createTokens []string
	createErr    error
	record       models.BookingRecord
	// block, when set, holds creation until it is closed; entered is signalled first.
	block   chan struct{}
	entered chan struct{}

	claims   []models.ClaimRequest
	claimErr error

	myBookings    []models.BookingRecord
	myBookingsErr error

	postalCalls []string
	postal      map[string]models.PostalLocation
	postalErr   error

	addressCalls int
	addresses    []models.AddressSuggestion

	providerCalls []models.ProviderQuery
	providers     []models.ProviderSuggestion
	// providersBlock holds SuggestProviders like block holds creation.
	providersBlock   chan struct{}
	providersEntered chan struct{}

	estimateCalls int
	estimate      *models.PriceEstimate
	estimateErr   error
}

func (f *fakeAPI) create(ctx context.Context, token string, req models.BookingRequest) (*models.BookingRecord, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	f.createTokens = append(f.createTokens, token)
	if f.createErr != nil {
		return nil, f.createErr
	}
	rec := f.record
	if rec.ID == "" {
		rec.ID = "bk_1"
	}
	return &rec, nil
}

func (f *fakeAPI) CreateBooking(ctx context.Context, token string, req models.BookingRequest) (*models.BookingRecord, error) {
	return f.create(ctx, token, req)
}

func (f *fakeAPI) CreateGuestBooking(ctx context.Context, req models.BookingRequest) (*models.BookingRecord, error) {
	return f.create(ctx, "", req)
}

func (f *fakeAPI) ClaimBooking(_ context.Context, _ string, req models.ClaimRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims = append(f.claims, req)
	return f.claimErr
}

func (f *fakeAPI) ListMyBookings(context.Context, string) ([]models.BookingRecord, error) {
	return f.myBookings, f.myBookingsErr
}

func (f *fakeAPI) LookupPostal(_ context.Context, code string) (*models.PostalLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postalCalls = append(f.postalCalls, code)
	if f.postalErr != nil {
		return nil, f.postalErr
	}
	loc := f.postal[code]
	return &loc, nil
}

func (f *fakeAPI) AutocompleteAddress(context.Context, string) ([]models.AddressSuggestion, error) {
	f.mu.Lock()
	f.addressCalls++
	f.mu.Unlock()
	return f.addresses, nil
}

func (f *fakeAPI) SuggestProviders(_ context.Context, _ string, q models.ProviderQuery) ([]models.ProviderSuggestion, error) {
	f.mu.Lock()
	f.providerCalls = append(f.providerCalls, q)
	f.mu.Unlock()
	if f.providersEntered != nil {
		f.providersEntered <- struct{}{}
	}
	if f.providersBlock != nil {
		<-f.providersBlock
	}
	return f.providers, nil
}

func (f *fakeAPI) EstimatePrice(context.Context, models.PriceEstimateRequest) (*models.PriceEstimate, error) {
	f.mu.Lock()
	f.estimateCalls++
	f.mu.Unlock()
	return f.estimate, f.estimateErr
}

var testNow = time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

type harness struct {
	ctrl     *Controller
	api      *fakeAPI
	store    *draft.MemoryStore
	recorder *fakeRecorder
}

func newHarness() *harness {
	api := &fakeAPI{}
	store := draft.NewMemoryStore()
	rec := &fakeRecorder{}
	ctrl := NewController(store, api, Options{
		Currency:         "EUR",
		PlatformFeeCents: 490,
		Location:         time.UTC,
		Clock:            fakeClock{now: testNow},
		Recorder:         rec,
		GuestToken:       func() (string, error) { return "guest-123", nil },
	}, zap.NewNop())
	return &harness{ctrl: ctrl, api: api, store: store, recorder: rec}
}

func validDraft() models.PlannerDraft {
	d := models.DefaultDraft()
	d.SurfaceArea = "80"
	d.DurationHours = 3
	d.ScheduledStart = "2026-11-10T09:00"
	d.Contact = models.Contact{Name: "Jana Weber", Phone: "+49 30 1234567"}
	d.Address = models.Address{Street: "Torstraße", StreetNumber: "12", PostalCode: "10119", City: "Berlin"}
	d.TermsAccepted = true
	return d
}

var principal = models.Principal{UserID: "u_1", Token: "tok"}
