package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"saubio/models"
	"saubio/services/draft"
	"saubio/services/lookup"
	"saubio/services/matching"
	"saubio/services/saubioapi"
	"saubio/services/selection"
)

const minAddressQuery = 3

// PostalResult is the resolved location for a postal code input.
// Label falls back to the raw input when no city is known.
type PostalResult struct {
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	District   string `json:"district,omitempty"`
	Label      string `json:"label"`
	Looked     bool   `json:"looked"`
}

// LookupPostal resolves a postal code. Inputs that are not 5 digits never reach the API.
// A resolved city is written into the draft addresses carrying that postal code while their city is empty.
func (c *Controller) LookupPostal(ctx context.Context, scope, input string) (*PostalResult, error) {
	raw := strings.TrimSpace(input)
	res := &PostalResult{PostalCode: raw, Label: raw}
	if !IsPostalCode(raw) {
		return res, nil
	}

	loc, err := lookup.Do(ctx, c.lookups, lookup.Key(scope, "postal"), c.opts.LookupDebounce,
		func(ctx context.Context) (*models.PostalLocation, error) {
			return c.api.LookupPostal(ctx, raw)
		})
	res.Looked = true
	switch {
	case errors.Is(err, saubioapi.ErrNotFound):
		return res, nil
	case errors.Is(err, lookup.ErrSuperseded), errors.Is(err, context.Canceled):
		return nil, err
	case err != nil:
		c.logger.Warn("postal lookup failed", zap.String("postalCode", raw), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLookupUnavailable, err)
	}

	res.City = loc.City
	res.District = loc.District
	if loc.City != "" {
		res.Label = raw + " " + loc.City
		c.fillCity(ctx, scope, raw, loc.City)
	}
	return res, nil
}

func (c *Controller) fillCity(ctx context.Context, scope, postalCode, city string) {
	stored, ok := c.store.Load(ctx, scope)
	if !ok {
		return
	}
	changed := false
	for _, a := range []*models.Address{&stored.Address, &stored.CleaningAddress} {
		if strings.TrimSpace(a.PostalCode) == postalCode && strings.TrimSpace(a.City) == "" {
			a.City = city
			changed = true
		}
	}
	if changed {
		c.store.Save(ctx, scope, *stored)
	}
}

// AddressSuggestions autocompletes a street query. Short queries and empty answers yield no matches.
func (c *Controller) AddressSuggestions(ctx context.Context, scope, query string) ([]models.AddressSuggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minAddressQuery {
		return []models.AddressSuggestion{}, nil
	}
	out, err := lookup.Do(ctx, c.lookups, lookup.Key(scope, "address"), c.opts.LookupDebounce,
		func(ctx context.Context) ([]models.AddressSuggestion, error) {
			return c.api.AutocompleteAddress(ctx, query)
		})
	switch {
	case errors.Is(err, lookup.ErrSuperseded), errors.Is(err, context.Canceled):
		return nil, err
	case err != nil:
		c.logger.Warn("address autocomplete failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLookupUnavailable, err)
	}
	if out == nil {
		out = []models.AddressSuggestion{}
	}
	return out, nil
}

// ProviderView is the provider picker state.
type ProviderView struct {
	Cards              []selection.Card    `json:"cards"`
	SelectedIDs        []string            `json:"selectedIds"`
	Mode               models.MatchingMode `json:"mode"`
	RequiredProviders  int                 `json:"requiredProviders"`
	Pending            int                 `json:"pending"`
	Blocked            bool                `json:"blocked"`
	MatchingContextKey string              `json:"matchingContextKey"`
}

func providerView(d models.PlannerDraft, sel *selection.Selection, cards []selection.Card) *ProviderView {
	if cards == nil {
		cards = []selection.Card{}
	}
	return &ProviderView{
		Cards:              cards,
		SelectedIDs:        sel.IDs(),
		Mode:               d.Mode,
		RequiredProviders:  d.RequiredProviders,
		Pending:            sel.Pending(d.RequiredProviders),
		Blocked:            sel.Blocked(d.Mode, d.RequiredProviders),
		MatchingContextKey: matching.KeyForDraft(d),
	}
}

// Providers fetches suggestions for the draft's service, place and time and merges their
// details into the draft's cache. Selected providers missing from the answer stay listed as stale.
func (c *Controller) Providers(ctx context.Context, scope string, p models.Principal) (*ProviderView, error) {
	s, _ := c.session(ctx, scope)
	d := s.Draft()
	sel := selection.FromDraft(d)

	addr := d.ServiceAddress()
	if !IsPostalCode(addr.PostalCode) {
		return providerView(d, sel, sel.Cards(nil)), nil
	}

	q := models.ProviderQuery{
		Service:       d.Service,
		PostalCode:    strings.TrimSpace(addr.PostalCode),
		City:          addr.City,
		DurationHours: d.DurationHours,
		EcoPreference: d.EcoPreference,
	}
	if window, ok := Schedule(d, c.opts.Location); ok {
		q.StartAt = window.Start.Format(time.RFC3339)
	}

	found, err := lookup.Do(ctx, c.lookups, lookup.Key(scope, "providers"), c.opts.LookupDebounce,
		func(ctx context.Context) ([]models.ProviderSuggestion, error) {
			return c.api.SuggestProviders(ctx, p.Token, q)
		})
	switch {
	case errors.Is(err, lookup.ErrSuperseded), errors.Is(err, context.Canceled):
		return nil, err
	case err != nil:
		c.logger.Warn("provider suggestions failed", zap.String("scope", scope), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLookupUnavailable, err)
	}

	// Merge into the draft as stored now; edits made while the lookup ran are kept and a
	// draft cleared meanwhile stays cleared.
	c.writes.Lock()
	defer c.writes.Unlock()
	stored, ok := c.store.Load(ctx, scope)
	if !ok {
		sel.Merge(found)
		return providerView(d, sel, sel.Cards(found)), nil
	}
	fresh := draft.NewSession()
	fresh.Hydrate(stored)
	fresh.Release()
	cur := selection.FromDraft(fresh.Draft())
	cur.Merge(found)
	fresh.Update(cur.WriteTo)
	c.store.Save(ctx, scope, fresh.Draft())
	return providerView(fresh.Draft(), cur, cur.Cards(found)), nil
}

// ToggleProvider adds or removes a provider from the manual selection.
func (c *Controller) ToggleProvider(ctx context.Context, scope, providerID string) (*ProviderView, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, ValidationErrors{{Field: "providerId", Code: CodeRequired, Message: "Provider id is required."}}
	}
	s, _ := c.session(ctx, scope)
	sel := selection.FromDraft(s.Draft())
	sel.Toggle(providerID)
	s.Update(sel.WriteTo)
	c.store.Save(ctx, scope, s.Draft())
	return providerView(s.Draft(), sel, nil), nil
}
