package models

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampDuration(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 2},
		{1.9, 2},
		{2.2, 2},
		{2.3, 2.5},
		{7.74, 7.5},
		{12.3, 12},
		{40, 12},
		{math.NaN(), 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampDuration(tt.in), "ClampDuration(%v)", tt.in)
	}
}

func TestSanitize_RepairsUnknownEnums(t *testing.T) {
	d := PlannerDraft{
		Service:              "laundry",
		Frequency:            "daily",
		EcoPreference:        "green",
		SoilLevel:            "filthy",
		Mode:                 "auto",
		DurationHours:        0.5,
		UpholsteryQuantities: map[string]int{"sofa": -2, "chair": 1},
	}
	d.Sanitize()

	assert.Equal(t, ServiceResidential, d.Service)
	assert.Equal(t, FrequencyOnce, d.Frequency)
	assert.Equal(t, EcoStandard, d.EcoPreference)
	assert.Equal(t, SoilNormal, d.SoilLevel)
	assert.Equal(t, ModeSmartMatch, d.Mode)
	assert.Equal(t, MinDurationHours, d.DurationHours)
	assert.Equal(t, map[string]int{"sofa": 0, "chair": 1}, d.UpholsteryQuantities)
}

func TestActiveExtrasFollowService(t *testing.T) {
	d := DefaultDraft()
	d.AddOns = []string{"fridge"}
	d.Wishes = []string{"pets"}
	d.UpholsteryAddOns = []string{"stain_guard"}
	d.UpholsteryQuantities = map[string]int{"sofa": 2, "chair": 0}

	assert.Equal(t, []string{"fridge"}, d.ActiveExtras())
	assert.Equal(t, []string{"pets"}, d.ActiveWishes())
	assert.Nil(t, d.ActiveUpholstery())

	d.Service = ServiceUpholstery
	assert.Equal(t, []string{"stain_guard"}, d.ActiveExtras())
	assert.Nil(t, d.ActiveWishes())
	assert.Equal(t, map[string]int{"sofa": 2}, d.ActiveUpholstery())
}

func TestServiceAddress(t *testing.T) {
	d := DefaultDraft()
	d.Address = Address{Street: "Torstraße", PostalCode: "10119"}
	d.CleaningAddress = Address{Street: "Kastanienallee", PostalCode: "10435"}
	assert.Equal(t, "10119", d.ServiceAddress().PostalCode, "disabled block is ignored")

	d.CleaningAddressEnabled = true
	assert.Equal(t, "10435", d.ServiceAddress().PostalCode)

	d.CleaningAddress = Address{}
	assert.Equal(t, "10119", d.ServiceAddress().PostalCode, "an empty block falls back")
}

func TestDefaultDraftFor(t *testing.T) {
	d := DefaultDraftFor(ServiceWindows)
	assert.Equal(t, ServiceWindows, d.Service)
	assert.Equal(t, ModeSmartMatch, d.Mode)
	assert.Equal(t, 1, d.RequiredProviders)
}

func TestCheckoutSummary_RoundTrip(t *testing.T) {
	hours, total, deposit := 3.5, int64(20944), int64(12490)
	notice := true
	s := CheckoutSummary{
		BookingID:     "bk_1",
		GuestToken:    "guest-1",
		Service:       ServiceOffice,
		Frequency:     FrequencyWeekly,
		Mode:          ModeSmartMatch,
		EcoPreference: EcoBio,
		Address:       Address{Street: "Torstraße", StreetNumber: "12", PostalCode: "10119", City: "Berlin"},
		StartAt:       "2026-11-10T09:00:00Z",
		DurationHours: &hours,
		Currency:      "EUR",
		TotalCents:    &total,
		ShortNotice:   &notice,
		DepositCents:  &deposit,
		ProviderIDs:   []string{"p1", "p2"},
	}

	v, err := url.ParseQuery(s.Encode().Encode())
	require.NoError(t, err)
	got := ParseCheckoutSummary(v)
	assert.Equal(t, s, got)
	assert.True(t, got.HasPendingClaim())
}

func TestParseCheckoutSummary_MalformedFields(t *testing.T) {
	v := url.Values{
		"bookingId":   {"  bk_2 "},
		"service":     {"laundry"},
		"frequency":   {"hourly"},
		"hours":       {"NaN"},
		"total":       {"12abc"},
		"subtotal":    {"0099"},
		"tax":         {"1e30"},
		"deposit":     {"-5"},
		"shortNotice": {"maybe"},
		"providerIds": {" p1, ,p2 "},
	}
	s := ParseCheckoutSummary(v)

	assert.Equal(t, "bk_2", s.BookingID)
	assert.Empty(t, s.Service)
	assert.Empty(t, s.Frequency)
	assert.Nil(t, s.DurationHours)
	assert.Nil(t, s.TotalCents)
	require.NotNil(t, s.SubtotalCents)
	assert.Equal(t, int64(99), *s.SubtotalCents)
	assert.Nil(t, s.TaxCents)
	assert.Nil(t, s.DepositCents)
	assert.Nil(t, s.ShortNotice)
	assert.Equal(t, []string{"p1", "p2"}, s.ProviderIDs)
	assert.False(t, s.HasPendingClaim())
}

func TestBookingRecordWindowAndDeposit(t *testing.T) {
	b := BookingRecord{StartAt: "2026-11-10T09:00:00Z", EndAt: "2026-11-10T12:00:00Z"}
	w, ok := b.Window()
	require.True(t, ok)
	assert.Equal(t, 3*time.Hour, w.End.Sub(w.Start))
	assert.Zero(t, b.DepositCents())

	dep := int64(500)
	b.ShortNoticeDepositCents = &dep
	assert.Equal(t, int64(500), b.DepositCents())

	b.EndAt = "soon"
	_, ok = b.Window()
	assert.False(t, ok)
}

func TestTimeRangeOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 11, 10, h, 0, 0, 0, time.UTC) }
	a := TimeRange{Start: at(9), End: at(12)}

	assert.True(t, a.Overlaps(TimeRange{Start: at(11), End: at(13)}))
	assert.True(t, a.Overlaps(TimeRange{Start: at(10), End: at(11)}))
	assert.False(t, a.Overlaps(TimeRange{Start: at(12), End: at(14)}), "back to back")
	assert.False(t, a.Overlaps(TimeRange{Start: at(6), End: at(9)}))
}

func TestParseCheckoutSummary_TotalOutOfRange(t *testing.T) {
	s := ParseCheckoutSummary(url.Values{"total": {"1e30"}, "extras": {"-0.4"}})
	assert.Nil(t, s.TotalCents)
	require.NotNil(t, s.ExtrasCents)
	assert.Equal(t, int64(0), *s.ExtrasCents)
}
