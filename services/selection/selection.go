// Package selection keeps the manually chosen providers and their display cache.
package selection

import (
	"slices"

	"saubio/models"
)

// Selection is the ordered set of chosen provider ids plus a display cache keyed by id.
// The cache is merged into, never replaced, so chosen providers stay renderable after
// a later search stops returning them.
type Selection struct {
	ids     []string
	details map[string]models.ProviderSuggestion
}

// Card is one renderable selected provider. Stale is set when the provider is no longer
// in the latest suggestions but is kept in the selection.
type Card struct {
	models.ProviderSuggestion
	Selected bool `json:"selected"`
	Stale    bool `json:"stale"`
}

func New() *Selection {
	return &Selection{details: make(map[string]models.ProviderSuggestion)}
}

// FromDraft rebuilds the selection stored on a draft.
func FromDraft(d models.PlannerDraft) *Selection {
	s := New()
	for _, id := range d.SelectedProviderIDs {
		if id != "" && !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
	for id, p := range d.ProviderDetails {
		s.details[id] = p
	}
	return s
}

// WriteTo stores the selection on d. Details are copied so d does not alias the selection.
func (s *Selection) WriteTo(d *models.PlannerDraft) {
	d.SelectedProviderIDs = s.IDs()
	details := make(map[string]models.ProviderSuggestion, len(s.details))
	for id, p := range s.details {
		details[id] = p
	}
	d.ProviderDetails = details
}

// Toggle removes id when present and appends it otherwise. It reports whether id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if id == "" {
		return false
	}
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Merge adds or refreshes cached details for the given suggestions.
func (s *Selection) Merge(suggestions []models.ProviderSuggestion) {
	for _, p := range suggestions {
		if p.ID == "" {
			continue
		}
		s.details[p.ID] = p
	}
}

func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// Pending is how many more providers must be picked to reach required.
func (s *Selection) Pending(required int) int {
	return max(0, required-len(s.ids))
}

// Blocked reports whether submission must wait for more picks. Only manual mode blocks.
func (s *Selection) Blocked(mode models.MatchingMode, required int) bool {
	return mode == models.ModeManual && s.Pending(required) > 0
}

// Cards lists the current suggestions followed by selected providers missing from them.
// Selected ids without cached details are rendered with the id only.
func (s *Selection) Cards(current []models.ProviderSuggestion) []Card {
	seen := make(map[string]struct{}, len(current))
	cards := make([]Card, 0, len(current)+len(s.ids))
	for _, p := range current {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		cards = append(cards, Card{ProviderSuggestion: p, Selected: slices.Contains(s.ids, p.ID)})
	}
	for _, id := range s.ids {
		if _, ok := seen[id]; ok {
			continue
		}
		p, ok := s.details[id]
		if !ok {
			p = models.ProviderSuggestion{ID: id}
		}
		cards = append(cards, Card{ProviderSuggestion: p, Selected: true, Stale: true})
	}
	return cards
}
