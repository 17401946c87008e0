package models

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// CheckoutSummary carries a submitted booking across the guest -> account -> payment redirects.
// It only ever lives in the query string, so parsing tolerates any field being missing or malformed.
type CheckoutSummary struct {
	BookingID  string
	GuestToken string

	Service       ServiceCategory
	Frequency     Frequency
	Mode          MatchingMode
	EcoPreference EcoPreference
	Address       Address
	StartAt       string
	EndAt         string
	DurationHours *float64

	Currency      string
	SubtotalCents *int64
	EcoCents      *int64
	ExtrasCents   *int64
	TaxCents      *int64
	TotalCents    *int64

	ShortNotice  *bool
	DepositCents *int64

	ProviderName string
	ProviderIDs  []string
}

// HasPendingClaim is true while the booking exists server side but is not owned by an account yet.
func (s CheckoutSummary) HasPendingClaim() bool {
	return s.GuestToken != ""
}

// Encode renders the summary as query parameters. Unset optional fields are omitted.
func (s CheckoutSummary) Encode() url.Values {
	v := url.Values{}
	setString(v, "bookingId", s.BookingID)
	setString(v, "guestToken", s.GuestToken)
	setString(v, "service", string(s.Service))
	setString(v, "frequency", string(s.Frequency))
	setString(v, "mode", string(s.Mode))
	setString(v, "eco", string(s.EcoPreference))
	setString(v, "street", s.Address.Street)
	setString(v, "streetNumber", s.Address.StreetNumber)
	setString(v, "postalCode", s.Address.PostalCode)
	setString(v, "city", s.Address.City)
	setString(v, "startAt", s.StartAt)
	setString(v, "endAt", s.EndAt)
	if s.DurationHours != nil {
		v.Set("hours", strconv.FormatFloat(*s.DurationHours, 'f', -1, 64))
	}
	setString(v, "currency", s.Currency)
	setInt(v, "subtotal", s.SubtotalCents)
	setInt(v, "ecoSurcharge", s.EcoCents)
	setInt(v, "extras", s.ExtrasCents)
	setInt(v, "tax", s.TaxCents)
	setInt(v, "total", s.TotalCents)
	if s.ShortNotice != nil {
		v.Set("shortNotice", strconv.FormatBool(*s.ShortNotice))
	}
	setInt(v, "deposit", s.DepositCents)
	setString(v, "providerName", s.ProviderName)
	if len(s.ProviderIDs) > 0 {
		v.Set("providerIds", strings.Join(s.ProviderIDs, ","))
	}
	return v
}

// ParseCheckoutSummary never fails: malformed numbers and booleans degrade to nil.
func ParseCheckoutSummary(v url.Values) CheckoutSummary {
	s := CheckoutSummary{
		BookingID:     strings.TrimSpace(v.Get("bookingId")),
		GuestToken:    strings.TrimSpace(v.Get("guestToken")),
		Service:       ServiceCategory(v.Get("service")),
		Frequency:     Frequency(v.Get("frequency")),
		Mode:          MatchingMode(v.Get("mode")),
		EcoPreference: EcoPreference(v.Get("eco")),
		Address: Address{
			Street:       v.Get("street"),
			StreetNumber: v.Get("streetNumber"),
			PostalCode:   v.Get("postalCode"),
			City:         v.Get("city"),
		},
		StartAt:       v.Get("startAt"),
		EndAt:         v.Get("endAt"),
		DurationHours: parseFloat(v.Get("hours")),
		Currency:      v.Get("currency"),
		SubtotalCents: parseCents(v.Get("subtotal")),
		EcoCents:      parseCents(v.Get("ecoSurcharge")),
		ExtrasCents:   parseCents(v.Get("extras")),
		TaxCents:      parseCents(v.Get("tax")),
		TotalCents:    parseCents(v.Get("total")),
		ShortNotice:   parseBool(v.Get("shortNotice")),
		DepositCents:  parseCents(v.Get("deposit")),
		ProviderName:  v.Get("providerName"),
	}
	if !s.Service.Valid() {
		s.Service = ""
	}
	if !s.Frequency.Valid() {
		s.Frequency = ""
	}
	for _, id := range strings.Split(v.Get("providerIds"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			s.ProviderIDs = append(s.ProviderIDs, id)
		}
	}
	return s
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value *int64) {
	if value != nil {
		v.Set(key, strconv.FormatInt(*value, 10))
	}
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseCents goes through float parsing so "0099" is not read as octal.
// Negative amounts and amounts beyond int64 are treated as absent.
func parseCents(raw string) *int64 {
	f := parseFloat(raw)
	if f == nil {
		return nil
	}
	r := math.Round(*f)
	if r < 0 || r >= math.MaxInt64 {
		return nil
	}
	n := int64(r)
	return &n
}

func parseBool(raw string) *bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return nil
	}
	return &b
}
