package estimator

import "saubio/models"

const (
	// EcoSurchargeRate applies to the base price when bio products are requested.
	EcoSurchargeRate = 0.12
	// VATRate is the fixed German VAT rate applied to the subtotal.
	VATRate = 0.19
	// LoyaltyRate estimates the loyalty credit earned on the total.
	LoyaltyRate = 0.02

	baseAreaM2      = 50.0
	areaStepM2      = 15.0
	defaultCurrency = "EUR"
)

// RatePerM2 is the list price per square metre, in EUR.
var RatePerM2 = map[models.ServiceCategory]float64{
	models.ServiceResidential:  2.2,
	models.ServiceOffice:       2.0,
	models.ServiceWindows:      1.6,
	models.ServiceDeepCleaning: 3.4,
	models.ServiceMoveOut:      3.8,
}

// FrequencyMultiplier discounts recurring bookings.
var FrequencyMultiplier = map[models.Frequency]float64{
	models.FrequencyOnce:     1.0,
	models.FrequencyWeekly:   0.85,
	models.FrequencyBiweekly: 0.9,
	models.FrequencyMonthly:  0.95,
}

// AddOnPercentage is the share of the base price charged per add-on.
var AddOnPercentage = map[string]float64{
	"inside_fridge":    0.05,
	"inside_oven":      0.06,
	"interior_windows": 0.10,
	"balcony":          0.04,
	"ironing":          0.08,
	"cabinets":         0.05,

	// upholstery
	"stain_protection": 0.15,
	"odor_treatment":   0.10,
	"express_drying":   0.08,
}

// UpholsteryItemPrice is the unit price per upholstery item, in EUR.
var UpholsteryItemPrice = map[string]float64{
	"sofa_2_seater": 59,
	"sofa_3_seater": 79,
	"corner_sofa":   119,
	"armchair":      35,
	"dining_chair":  12,
	"mattress":      49,
	"rug_m2":        9,
}

// WishTags lists the selectable wishes per service. Upholstery uses items instead.
var WishTags = map[models.ServiceCategory][]string{
	models.ServiceResidential:  {"pet_friendly", "fragrance_free", "bring_supplies", "same_team"},
	models.ServiceOffice:       {"after_hours", "key_handover", "waste_separation"},
	models.ServiceWindows:      {"frames_included", "skylights"},
	models.ServiceDeepCleaning: {"limescale", "grout", "bring_supplies"},
	models.ServiceMoveOut:      {"handover_protocol", "wall_spots"},
}
