package models

// PaymentIntent is the API's answer to "does this booking need to be paid now".
// Required is nil when the API does not state it explicitly.
type PaymentIntent struct {
	Required        *bool  `json:"required,omitempty"`
	CheckoutURL     string `json:"checkoutUrl,omitempty"`
	StripeSessionID string `json:"stripeSessionId,omitempty"`
}

// CheckoutBreakdown is a client side estimate in currency units.
// Total = Base + Eco + AddOns + Tax; Loyalty is informational and never subtracted.
type CheckoutBreakdown struct {
	Base    float64 `json:"base"`
	Eco     float64 `json:"eco"`
	AddOns  float64 `json:"addOns"`
	Tax     float64 `json:"tax"`
	Loyalty float64 `json:"loyalty"`
	Total   float64 `json:"total"`
}

// Subtotal is everything before tax.
func (b CheckoutBreakdown) Subtotal() float64 {
	return b.Base + b.Eco + b.AddOns
}

// PriceEstimateRequest asks the API for market rates for a prospective booking.
type PriceEstimateRequest struct {
	Service       ServiceCategory `json:"service"`
	PostalCode    string          `json:"postalCode"`
	DurationHours float64         `json:"durationHours"`
	EcoPreference EcoPreference   `json:"ecoPreference"`
	StartAt       string          `json:"startAt,omitempty"`
}

// PriceEstimate carries the market rate used for deposit holds. AverageHourlyRateCents may be unknown.
type PriceEstimate struct {
	AverageHourlyRateCents *int64 `json:"averageHourlyRateCents,omitempty"`
	PlatformFeeCents       int64  `json:"platformFeeCents"`
	Currency               string `json:"currency"`
}
