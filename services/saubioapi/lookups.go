package saubioapi

import (
	"context"
	"net/http"
	"net/url"

	"saubio/models"
)

// AutocompleteAddress returns address suggestions for a partial query.
func (c *Client) AutocompleteAddress(ctx context.Context, query string) ([]models.AddressSuggestion, error) {
	var resp addressAutocompleteResponse
	path := "/geo/address-autocomplete?" + url.Values{"q": {query}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.AddressSuggestion, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		out = append(out, models.AddressSuggestion{
			Label:        s.Label,
			Street:       s.Street,
			StreetNumber: s.StreetNumber,
			PostalCode:   s.PostalCode,
			City:         s.City,
		})
	}
	return out, nil
}

// LookupPostal resolves a postal code. Unknown codes return ErrNotFound.
func (c *Client) LookupPostal(ctx context.Context, postalCode string) (*models.PostalLocation, error) {
	var loc models.PostalLocation
	if err := c.do(ctx, http.MethodGet, "/geo/postal/"+url.PathEscape(postalCode), "", nil, &loc); err != nil {
		return nil, err
	}
	if loc.PostalCode == "" {
		loc.PostalCode = postalCode
	}
	return &loc, nil
}

// SuggestProviders lists providers able to serve the query. An empty list is not an error.
func (c *Client) SuggestProviders(ctx context.Context, token string, q models.ProviderQuery) ([]models.ProviderSuggestion, error) {
	var resp providerSuggestionsResponse
	if err := c.do(ctx, http.MethodPost, "/providers/suggestions", token, q, &resp); err != nil {
		return nil, err
	}
	out := make([]models.ProviderSuggestion, 0, len(resp.Providers))
	for _, p := range resp.Providers {
		out = append(out, models.ProviderSuggestion{
			ID:              p.ID,
			DisplayName:     p.DisplayName,
			AvatarURL:       p.AvatarURL,
			Rating:          p.Rating,
			ReviewCount:     p.ReviewCount,
			HourlyRateCents: p.HourlyRateCents,
			DistanceKm:      p.DistanceKm,
			EcoCertified:    p.EcoCertified,
		})
	}
	return out, nil
}

// EstimatePrice fetches market rates used for the short notice deposit hold.
func (c *Client) EstimatePrice(ctx context.Context, req models.PriceEstimateRequest) (*models.PriceEstimate, error) {
	var est models.PriceEstimate
	if err := c.do(ctx, http.MethodPost, "/pricing/estimate", "", req, &est); err != nil {
		return nil, err
	}
	return &est, nil
}
