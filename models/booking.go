package models

import "time"

// BookingRequest is the payload accepted by the booking creation endpoints.
// Guest drafts carry a client generated GuestToken.
type BookingRequest struct {
	Address              Address         `json:"address"`
	CleaningAddress      *Address        `json:"cleaningAddress,omitempty"`
	Contact              Contact         `json:"contact"`
	SecondaryContact     *Contact        `json:"secondaryContact,omitempty"`
	Service              ServiceCategory `json:"service"`
	SurfacesSquareMeters float64         `json:"surfacesSquareMeters"`
	StartAt              string          `json:"startAt"`
	EndAt                string          `json:"endAt"`
	Frequency            Frequency       `json:"frequency"`
	Mode                 MatchingMode    `json:"mode"`
	EcoPreference        EcoPreference   `json:"ecoPreference"`
	RequiredProviders    int             `json:"requiredProviders"`
	PreferredTeamID      string          `json:"preferredTeamId,omitempty"`
	ProviderIDs          []string        `json:"providerIds,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	Attachments          []string        `json:"attachments,omitempty"`
	CouponCode           string          `json:"couponCode,omitempty"`
	SoilLevel            SoilLevel       `json:"soilLevel,omitempty"`
	Wishes               []string        `json:"wishes,omitempty"`
	UpholsteryItems      map[string]int  `json:"upholsteryItems,omitempty"`
	AddOns               []string        `json:"addOns,omitempty"`

	LeadTimeDays          *int   `json:"leadTimeDays,omitempty"`
	ShortNotice           *bool  `json:"shortNotice,omitempty"`
	EstimatedDepositCents *int64 `json:"estimatedDepositCents,omitempty"`

	GuestToken string `json:"guestToken,omitempty"`
}

// PricingCents is the server side price breakdown in integer minor units.
type PricingCents struct {
	SubtotalCents int64  `json:"subtotalCents"`
	EcoCents      int64  `json:"ecoCents"`
	ExtrasCents   int64  `json:"extrasCents"`
	TaxCents      int64  `json:"taxCents"`
	TotalCents    int64  `json:"totalCents"`
	Currency      string `json:"currency"`
}

// BookingRecord is what the API returns after creating or fetching a booking.
type BookingRecord struct {
	ID                      string          `json:"id"`
	Status                  string          `json:"status"`
	CheckoutURL             string          `json:"checkoutUrl,omitempty"`
	Pricing                 PricingCents    `json:"pricing"`
	ShortNotice             bool            `json:"shortNotice"`
	ShortNoticeDepositCents *int64          `json:"shortNoticeDepositCents,omitempty"`
	Service                 ServiceCategory `json:"service"`
	Frequency               Frequency       `json:"frequency"`
	Mode                    MatchingMode    `json:"mode"`
	EcoPreference           EcoPreference   `json:"ecoPreference"`
	Address                 Address         `json:"address"`
	StartAt                 string          `json:"startAt"`
	EndAt                   string          `json:"endAt"`
	ProviderIDs             []string        `json:"providerIds,omitempty"`
	ProviderName            string          `json:"providerName,omitempty"`
}

// DepositCents returns the short notice deposit or 0.
func (b BookingRecord) DepositCents() int64 {
	if b.ShortNoticeDepositCents == nil {
		return 0
	}
	return *b.ShortNoticeDepositCents
}

// Window parses StartAt/EndAt. ok is false when either bound is missing or malformed.
func (b BookingRecord) Window() (TimeRange, bool) {
	start, err := time.Parse(time.RFC3339, b.StartAt)
	if err != nil {
		return TimeRange{}, false
	}
	end, err := time.Parse(time.RFC3339, b.EndAt)
	if err != nil {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}

// ClaimRequest associates a guest booking with the authenticated caller.
type ClaimRequest struct {
	BookingID  string `json:"bookingId"`
	GuestToken string `json:"guestToken"`
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open intervals, so back-to-back bookings do not conflict.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}
