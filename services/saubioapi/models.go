package saubioapi

// ErrorResponse is the error body returned by the Saubio API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type addressAutocompleteResponse struct {
	Suggestions []addressSuggestionDTO `json:"suggestions"`
}

type addressSuggestionDTO struct {
	Label        string `json:"label"`
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
}

type providerSuggestionsResponse struct {
	Providers []providerSuggestionDTO `json:"providers"`
}

type providerSuggestionDTO struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"displayName"`
	AvatarURL       string  `json:"avatarUrl"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"reviewCount"`
	HourlyRateCents int64   `json:"hourlyRateCents"`
	DistanceKm      float64 `json:"distanceKm"`
	EcoCertified    bool    `json:"ecoCertified"`
}
