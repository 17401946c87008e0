package draft

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saubio/models"
)

func sampleDraft() models.PlannerDraft {
	d := models.DefaultDraftFor(models.ServiceOffice)
	d.Frequency = models.FrequencyWeekly
	d.DurationHours = 4.5
	d.SurfaceArea = "120"
	d.ScheduledStart = "2026-11-02T09:00"
	d.EcoPreference = models.EcoBio
	d.Contact = models.Contact{Name: "Jana Weber", Phone: "+49 30 1234567", Company: "Weber GmbH"}
	d.Address = models.Address{Street: "Torstraße", StreetNumber: "12", PostalCode: "10119", City: "Berlin"}
	d.SecondaryContactEnabled = true
	d.SecondaryContact = models.Contact{Name: "Front desk", Phone: "+49 30 7654321"}
	d.Wishes = []string{"after_hours"}
	d.AddOns = []string{}
	d.UpholsteryQuantities = map[string]int{}
	d.AreaSuggestion = &models.AreaSuggestion{Area: 120, Hours: 4}
	d.TermsAccepted = true
	d.Mode = models.ModeManual
	d.RequiredProviders = 2
	d.SelectedProviderIDs = []string{"p1", "p2"}
	d.ProviderDetails = map[string]models.ProviderSuggestion{"p1": {ID: "p1", DisplayName: "Clean Crew"}}
	return d
}

func TestCodec_RoundTrip(t *testing.T) {
	d := sampleDraft()
	data, err := Encode(d)
	require.NoError(t, err)

	got, ok := Decode(data)
	require.True(t, ok)
	assert.Equal(t, d, *got)
}

func TestCodec_RejectsGarbageAndOtherVersions(t *testing.T) {
	_, ok := Decode([]byte("not json"))
	assert.False(t, ok)

	_, ok = Decode([]byte(`{"version":99,"draft":{"service":"office"}}`))
	assert.False(t, ok)

	_, ok = Decode([]byte(`{"version":1}`))
	assert.False(t, ok)
}

func TestCodec_AppliesFieldsIndividually(t *testing.T) {
	data := []byte(`{"version":1,"draft":{"service":"windows","durationHours":"three","notes":"ring twice","legacyField":true}}`)

	got, ok := Decode(data)
	require.True(t, ok)
	assert.Equal(t, models.ServiceWindows, got.Service)
	assert.Equal(t, "ring twice", got.Notes)
	assert.Equal(t, models.MinDurationHours, got.DurationHours, "malformed field keeps its default")
}

func TestCodec_ClampsDuration(t *testing.T) {
	got, ok := Decode([]byte(`{"version":1,"draft":{"durationHours":13.2}}`))
	require.True(t, ok)
	assert.Equal(t, models.MaxDurationHours, got.DurationHours)

	got, ok = Decode([]byte(`{"version":1,"draft":{"durationHours":3.3}}`))
	require.True(t, ok)
	assert.Equal(t, 3.5, got.DurationHours)
}

func TestApplyFields_ReplacesCollections(t *testing.T) {
	base := sampleDraft()
	next, applied := ApplyFields(base, map[string]json.RawMessage{
		"selectedProviderIds": json.RawMessage(`["p3"]`),
		"unknown":             json.RawMessage(`1`),
	})
	assert.Equal(t, []string{"selectedProviderIds"}, applied)
	assert.Equal(t, []string{"p3"}, next.SelectedProviderIDs)
	assert.Equal(t, []string{"p1", "p2"}, base.SelectedProviderIDs, "base is not mutated")
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok := s.Load(ctx, "tab-1")
	assert.False(t, ok)

	d := sampleDraft()
	s.Save(ctx, "tab-1", d)
	got, ok := s.Load(ctx, "tab-1")
	require.True(t, ok)
	assert.Equal(t, d, *got)

	_, ok = s.Load(ctx, "tab-2")
	assert.False(t, ok, "scopes do not share drafts")

	s.Clear(ctx, "tab-1")
	s.Clear(ctx, "tab-1")
	_, ok = s.Load(ctx, "tab-1")
	assert.False(t, ok)
}

func TestMemoryStore_CorruptEntryIsNoDraft(t *testing.T) {
	s := NewMemoryStore()
	s.Put("tab", []byte("{"))
	_, ok := s.Load(context.Background(), "tab")
	assert.False(t, ok)
}

func TestRedisStore_UnreachableIsSilent(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	s := NewRedisStore(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		s.Save(ctx, "tab", sampleDraft())
		s.Clear(ctx, "tab")
	})
	_, ok := s.Load(ctx, "tab")
	assert.False(t, ok)
}

func TestSession_ServiceChangeResets(t *testing.T) {
	s := NewSession()
	s.Apply(map[string]json.RawMessage{
		"surfaceArea": json.RawMessage(`"90"`),
		"notes":       json.RawMessage(`"keys under the mat"`),
	})
	require.Equal(t, "90", s.Draft().SurfaceArea)

	s.Apply(map[string]json.RawMessage{"service": json.RawMessage(`"office"`)})

	assert.Equal(t, models.DefaultDraftFor(models.ServiceOffice), s.Draft())
}

func TestSession_ServiceChangeInSamePatchKeepsOtherFields(t *testing.T) {
	s := NewSession()
	s.Apply(map[string]json.RawMessage{"notes": json.RawMessage(`"old"`)})
	s.Apply(map[string]json.RawMessage{
		"service":     json.RawMessage(`"windows"`),
		"surfaceArea": json.RawMessage(`"40"`),
	})

	d := s.Draft()
	assert.Equal(t, models.ServiceWindows, d.Service)
	assert.Equal(t, "40", d.SurfaceArea)
	assert.Empty(t, d.Notes)
}

func TestSession_HydrationGuardPreservesRestoredDraft(t *testing.T) {
	stored := sampleDraft()
	s := NewSession()

	require.True(t, s.Hydrate(&stored))
	assert.True(t, s.Guarded())
	assert.Equal(t, stored, s.Draft(), "hydrating an office draft onto residential defaults must not reset it")

	s.Release()
	assert.False(t, s.Guarded())

	s.Apply(map[string]json.RawMessage{"notes": json.RawMessage(`"more"`)})
	assert.Equal(t, "Torstraße", s.Draft().Address.Street, "same service keeps fields")

	s.SetService(models.ServiceResidential)
	assert.Equal(t, models.DefaultDraftFor(models.ServiceResidential), s.Draft())
}

func TestSession_ServiceChangeWhileGuarded(t *testing.T) {
	stored := sampleDraft()
	s := NewSession()
	s.Hydrate(&stored)

	s.SetService(models.ServiceWindows)
	assert.Equal(t, "Torstraße", s.Draft().Address.Street)
	assert.Equal(t, models.ServiceWindows, s.Draft().Service)
}

func TestSession_HydrateOnlyOnce(t *testing.T) {
	s := NewSession()
	assert.False(t, s.Hydrate(nil))
	stored := sampleDraft()
	assert.False(t, s.Hydrate(&stored))
	assert.Equal(t, models.DefaultDraft(), s.Draft())
}
