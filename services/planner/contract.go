package planner

import (
	"context"
	"time"

	"saubio/models"
)

// BookingAPI is the part of the Saubio API the planner drives.
type BookingAPI interface {
	CreateBooking(ctx context.Context, token string, req models.BookingRequest) (*models.BookingRecord, error)
	CreateGuestBooking(ctx context.Context, req models.BookingRequest) (*models.BookingRecord, error)
	ClaimBooking(ctx context.Context, token string, req models.ClaimRequest) error
	ListMyBookings(ctx context.Context, token string) ([]models.BookingRecord, error)
	LookupPostal(ctx context.Context, postalCode string) (*models.PostalLocation, error)
	AutocompleteAddress(ctx context.Context, query string) ([]models.AddressSuggestion, error)
	SuggestProviders(ctx context.Context, token string, q models.ProviderQuery) ([]models.ProviderSuggestion, error)
	EstimatePrice(ctx context.Context, req models.PriceEstimateRequest) (*models.PriceEstimate, error)
}

// Recorder receives flow outcomes for metrics.
type Recorder interface {
	Submission(outcome string)
	Claim(outcome string)
}

// TimeProvider makes "now" injectable in tests.
type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type nopRecorder struct{}

func (nopRecorder) Submission(string) {}
func (nopRecorder) Claim(string)      {}
