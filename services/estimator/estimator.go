// Package estimator derives suggested durations and client side price estimates from a planner draft.
// Everything here is pure; the API remains the pricing authority.
package estimator

import (
	"math"
	"strconv"
	"strings"

	"saubio/models"
)

// EstimateCleaningHours suggests a duration for a surface area.
// It starts at the minimum, adds one step per full 15 m² beyond the first 50 m², and clamps.
// A nil, NaN or non-positive area yields nil.
func EstimateCleaningHours(area *float64) *float64 {
	if area == nil || math.IsNaN(*area) || *area <= 0 {
		return nil
	}
	hours := models.MinDurationHours
	if extra := *area - baseAreaM2; extra > 0 {
		hours += math.Floor(extra/areaStepM2) * models.DurationStepHours
	}
	hours = math.Min(math.Max(hours, models.MinDurationHours), models.MaxDurationHours)
	return &hours
}

// ParseSurface reads the free-text surface field. Both "80.5" and "80,5" are accepted.
func ParseSurface(raw string) *float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Input is everything Breakdown needs.
type Input struct {
	Service         models.ServiceCategory
	Frequency       models.Frequency
	EcoPreference   models.EcoPreference
	SurfaceM2       float64
	AddOns          []string
	UpholsteryItems map[string]int
}

// InputFromDraft maps the draft's active fields onto an estimator input.
func InputFromDraft(d models.PlannerDraft) Input {
	in := Input{
		Service:         d.Service,
		Frequency:       d.Frequency,
		EcoPreference:   d.EcoPreference,
		AddOns:          d.ActiveExtras(),
		UpholsteryItems: d.ActiveUpholstery(),
	}
	if area := ParseSurface(d.SurfaceArea); area != nil && *area > 0 {
		in.SurfaceM2 = *area
	}
	return in
}

// Breakdown computes the price estimate.
//
//	base   = surface * rate[service] * multiplier[frequency]   (upholstery: sum of item prices * multiplier)
//	eco    = base * 0.12 when bio
//	addOns = sum(base * percentage[addOn])
//	tax    = (base + eco + addOns) * 0.19
//	total  = base + eco + addOns + tax
func Breakdown(in Input) models.CheckoutBreakdown {
	multiplier, ok := FrequencyMultiplier[in.Frequency]
	if !ok {
		multiplier = 1
	}

	var base float64
	if in.Service == models.ServiceUpholstery {
		for id, qty := range in.UpholsteryItems {
			if qty > 0 {
				base += UpholsteryItemPrice[id] * float64(qty)
			}
		}
		base *= multiplier
	} else {
		base = in.SurfaceM2 * RatePerM2[in.Service] * multiplier
	}

	var eco float64
	if in.EcoPreference == models.EcoBio {
		eco = base * EcoSurchargeRate
	}

	var addOns float64
	for _, id := range in.AddOns {
		addOns += base * AddOnPercentage[id]
	}

	subtotal := base + eco + addOns
	tax := subtotal * VATRate
	total := subtotal + tax

	return models.CheckoutBreakdown{
		Base:    base,
		Eco:     eco,
		AddOns:  addOns,
		Tax:     tax,
		Loyalty: total * LoyaltyRate,
		Total:   total,
	}
}

// ToCents converts currency units to rounded minor units.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// PricingCents converts a breakdown into the integer representation the checkout pages use.
func PricingCents(b models.CheckoutBreakdown, currency string) models.PricingCents {
	if currency == "" {
		currency = defaultCurrency
	}
	return models.PricingCents{
		SubtotalCents: ToCents(b.Base),
		EcoCents:      ToCents(b.Eco),
		ExtrasCents:   ToCents(b.AddOns),
		TaxCents:      ToCents(b.Tax),
		TotalCents:    ToCents(b.Total),
		Currency:      currency,
	}
}
