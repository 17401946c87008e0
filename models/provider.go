package models

import "time"

// ProviderSuggestion is a provider card returned by the suggestions lookup.
type ProviderSuggestion struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"displayName"`
	AvatarURL       string  `json:"avatarUrl,omitempty"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"reviewCount"`
	HourlyRateCents int64   `json:"hourlyRateCents"`
	DistanceKm      float64 `json:"distanceKm"`
	EcoCertified    bool    `json:"ecoCertified"`
}

// ProviderQuery keys a suggestions lookup.
type ProviderQuery struct {
	Service       ServiceCategory `json:"service"`
	PostalCode    string          `json:"postalCode"`
	City          string          `json:"city,omitempty"`
	StartAt       string          `json:"startAt,omitempty"`
	DurationHours float64         `json:"durationHours"`
	EcoPreference EcoPreference   `json:"ecoPreference"`
}

// MatchingProgressEvent is pushed by the API while it is broadcasting a request to providers.
type MatchingProgressEvent struct {
	ContextKey string    `json:"contextKey"`
	Stage      string    `json:"stage"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}
