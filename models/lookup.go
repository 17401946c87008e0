package models

// AddressSuggestion is one autocomplete hit.
type AddressSuggestion struct {
	Label        string `json:"label"`
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber,omitempty"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
}

// PostalLocation resolves a postal code to a city.
type PostalLocation struct {
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	District   string `json:"district,omitempty"`
}

// Principal is the caller identity derived from the bearer token.
// The zero value is an anonymous guest.
type Principal struct {
	UserID string
	Token  string
}

func (p Principal) Authenticated() bool {
	return p.UserID != "" && p.Token != ""
}
