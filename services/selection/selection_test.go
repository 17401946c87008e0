package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saubio/models"
)

func TestToggle(t *testing.T) {
	s := New()
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Toggle("b"))
	assert.True(t, s.Toggle("c"))
	assert.False(t, s.Toggle("b"))
	assert.Equal(t, []string{"a", "c"}, s.IDs())

	assert.True(t, s.Toggle("b"))
	assert.Equal(t, []string{"a", "c", "b"}, s.IDs(), "re-selected ids are appended")

	assert.False(t, s.Toggle(""))
	assert.Equal(t, 3, s.Len())
}

func TestPendingAndBlocked(t *testing.T) {
	s := New()
	s.Toggle("a")

	assert.Equal(t, 2, s.Pending(3))
	assert.True(t, s.Blocked(models.ModeManual, 3))
	assert.False(t, s.Blocked(models.ModeSmartMatch, 3), "smart match never blocks")

	s.Toggle("b")
	s.Toggle("c")
	assert.Equal(t, 0, s.Pending(3))
	assert.False(t, s.Blocked(models.ModeManual, 3))

	s.Toggle("d")
	assert.Equal(t, 0, s.Pending(3))
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.IDs(), "switching modes never drops picks")
}

func TestCards_KeepsStaleSelections(t *testing.T) {
	s := New()
	first := []models.ProviderSuggestion{
		{ID: "p1", DisplayName: "Clean Crew"},
		{ID: "p2", DisplayName: "Sparkle"},
	}
	s.Merge(first)
	s.Toggle("p1")
	s.Toggle("p2")

	second := []models.ProviderSuggestion{{ID: "p2", DisplayName: "Sparkle Berlin"}, {ID: "p3", DisplayName: "Fresh"}}
	s.Merge(second)
	cards := s.Cards(second)

	require.Len(t, cards, 3)
	assert.Equal(t, "p2", cards[0].ID)
	assert.True(t, cards[0].Selected)
	assert.False(t, cards[0].Stale)
	assert.Equal(t, "p3", cards[1].ID)
	assert.False(t, cards[1].Selected)

	assert.Equal(t, "p1", cards[2].ID)
	assert.Equal(t, "Clean Crew", cards[2].DisplayName, "details survive a search that drops the provider")
	assert.True(t, cards[2].Stale)
}

func TestCards_UnknownSelectedID(t *testing.T) {
	s := New()
	s.Toggle("ghost")
	cards := s.Cards(nil)
	require.Len(t, cards, 1)
	assert.Equal(t, "ghost", cards[0].ID)
	assert.True(t, cards[0].Stale)
}

func TestDraftRoundTrip(t *testing.T) {
	d := models.DefaultDraft()
	d.SelectedProviderIDs = []string{"p1", "p1", "p2"}
	d.ProviderDetails = map[string]models.ProviderSuggestion{"p1": {ID: "p1", DisplayName: "Clean Crew"}}

	s := FromDraft(d)
	assert.Equal(t, []string{"p1", "p2"}, s.IDs())

	s.Toggle("p3")
	s.Merge([]models.ProviderSuggestion{{ID: "p3", DisplayName: "Fresh"}})
	s.WriteTo(&d)

	assert.Equal(t, []string{"p1", "p2", "p3"}, d.SelectedProviderIDs)
	assert.Len(t, d.ProviderDetails, 2)
	assert.Equal(t, "Fresh", d.ProviderDetails["p3"].DisplayName)
}
