package models

import "math"

// ServiceCategory is the cleaning service a draft is planned for.
type ServiceCategory string

const (
	ServiceResidential  ServiceCategory = "residential"
	ServiceOffice       ServiceCategory = "office"
	ServiceWindows      ServiceCategory = "windows"
	ServiceDeepCleaning ServiceCategory = "deep_cleaning"
	ServiceMoveOut      ServiceCategory = "move_out"
	ServiceUpholstery   ServiceCategory = "upholstery"
)

// Valid reports whether s is a known service category.
func (s ServiceCategory) Valid() bool {
	switch s {
	case ServiceResidential, ServiceOffice, ServiceWindows, ServiceDeepCleaning, ServiceMoveOut, ServiceUpholstery:
		return true
	}
	return false
}

type Frequency string

const (
	FrequencyOnce     Frequency = "once"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

type EcoPreference string

const (
	EcoStandard EcoPreference = "standard"
	EcoBio      EcoPreference = "bio"
)

type SoilLevel string

const (
	SoilLight  SoilLevel = "light"
	SoilNormal SoilLevel = "normal"
	SoilHeavy  SoilLevel = "heavy"
)

// MatchingMode decides who picks the providers: the customer (manual) or the server (smart_match).
type MatchingMode string

const (
	ModeManual     MatchingMode = "manual"
	ModeSmartMatch MatchingMode = "smart_match"
)

const (
	MinDurationHours     = 2.0
	MaxDurationHours     = 12.0
	DurationStepHours    = 0.5
	MinRequiredProviders = 1
	MaxRequiredProviders = 20
)

// DraftSchemaVersion is the version written into every persisted draft envelope.
const DraftSchemaVersion = 1

type Address struct {
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
}

// Empty reports whether no address line was filled in.
func (a Address) Empty() bool {
	return a.Street == "" && a.StreetNumber == "" && a.PostalCode == "" && a.City == ""
}

type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Company string `json:"company,omitempty"`
}

// AreaSuggestion memoizes the last surface area for which a duration hint was computed.
type AreaSuggestion struct {
	Area  float64 `json:"area"`
	Hours float64 `json:"hours"`
}

// PlannerDraft is the in-progress booking form, persisted per tab session.
// Slices and maps carry no omitempty: nil and empty values must survive a JSON round trip.
type PlannerDraft struct {
	Service        ServiceCategory `json:"service"`
	Frequency      Frequency       `json:"frequency"`
	DurationHours  float64         `json:"durationHours"`
	SurfaceArea    string          `json:"surfaceArea,omitempty"`
	ScheduledStart string          `json:"scheduledStart,omitempty"`
	EcoPreference  EcoPreference   `json:"ecoPreference"`
	CouponCode     string          `json:"couponCode,omitempty"`

	Contact Contact `json:"contact"`
	Address Address `json:"address"`

	CleaningAddressEnabled  bool    `json:"cleaningAddressEnabled"`
	CleaningAddress         Address `json:"cleaningAddress"`
	SecondaryContactEnabled bool    `json:"secondaryContactEnabled"`
	SecondaryContact        Contact `json:"secondaryContact"`

	SoilLevel            SoilLevel      `json:"soilLevel"`
	Wishes               []string       `json:"wishes"`
	Notes                string         `json:"notes,omitempty"`
	UpholsteryQuantities map[string]int `json:"upholsteryQuantities"`
	UpholsteryAddOns     []string       `json:"upholsteryAddOns"`
	AddOns               []string       `json:"addOns"`

	AreaSuggestion *AreaSuggestion `json:"areaSuggestion"`

	TermsAccepted    bool `json:"termsAccepted"`
	ContactCollapsed bool `json:"contactCollapsed"`
	AddressCollapsed bool `json:"addressCollapsed"`

	Mode                    MatchingMode                  `json:"mode"`
	RequiredProviders       int                           `json:"requiredProviders"`
	SelectedProviderIDs     []string                      `json:"selectedProviderIds"`
	ProviderDetails         map[string]ProviderSuggestion `json:"providerDetails"`
	PreferredTeamID         string                        `json:"preferredTeamId,omitempty"`
	Attachments             []string                      `json:"attachments"`
	ShortNoticeAcknowledged bool                          `json:"shortNoticeAcknowledged"`
}

// DefaultDraft returns the documented defaults for a fresh planner.
func DefaultDraft() PlannerDraft {
	return PlannerDraft{
		Service:           ServiceResidential,
		Frequency:         FrequencyOnce,
		DurationHours:     MinDurationHours,
		EcoPreference:     EcoStandard,
		SoilLevel:         SoilNormal,
		Mode:              ModeSmartMatch,
		RequiredProviders: MinRequiredProviders,
	}
}

// DefaultDraftFor returns the defaults with only the service set.
func DefaultDraftFor(service ServiceCategory) PlannerDraft {
	d := DefaultDraft()
	d.Service = service
	return d
}

// ServiceAddress is where the cleaning happens: the secondary block when enabled, else the primary address.
func (d PlannerDraft) ServiceAddress() Address {
	if d.CleaningAddressEnabled && !d.CleaningAddress.Empty() {
		return d.CleaningAddress
	}
	return d.Address
}

// ActiveExtras returns the add-on ids that apply to the draft's service.
// Upholstery uses its own add-on set; every other service uses the generic add-ons.
func (d PlannerDraft) ActiveExtras() []string {
	if d.Service == ServiceUpholstery {
		return d.UpholsteryAddOns
	}
	return d.AddOns
}

// ActiveWishes returns the wish tags, which are meaningless for upholstery.
func (d PlannerDraft) ActiveWishes() []string {
	if d.Service == ServiceUpholstery {
		return nil
	}
	return d.Wishes
}

// ActiveUpholstery returns item quantities > 0, only for upholstery drafts.
func (d PlannerDraft) ActiveUpholstery() map[string]int {
	if d.Service != ServiceUpholstery {
		return nil
	}
	items := make(map[string]int, len(d.UpholsteryQuantities))
	for id, qty := range d.UpholsteryQuantities {
		if qty > 0 {
			items[id] = qty
		}
	}
	return items
}

// Sanitize enforces the field bounds after any external write.
func (d *PlannerDraft) Sanitize() {
	d.DurationHours = ClampDuration(d.DurationHours)
	if !d.Service.Valid() {
		d.Service = ServiceResidential
	}
	if !d.Frequency.Valid() {
		d.Frequency = FrequencyOnce
	}
	if d.EcoPreference != EcoBio {
		d.EcoPreference = EcoStandard
	}
	switch d.SoilLevel {
	case SoilLight, SoilNormal, SoilHeavy:
	default:
		d.SoilLevel = SoilNormal
	}
	if d.Mode != ModeManual {
		d.Mode = ModeSmartMatch
	}
	for id, qty := range d.UpholsteryQuantities {
		if qty < 0 {
			d.UpholsteryQuantities[id] = 0
		}
	}
}

// ClampDuration rounds h to the nearest step and clamps it to [MinDurationHours, MaxDurationHours].
func ClampDuration(h float64) float64 {
	if math.IsNaN(h) {
		return MinDurationHours
	}
	h = math.Round(h/DurationStepHours) * DurationStepHours
	if h < MinDurationHours {
		return MinDurationHours
	}
	if h > MaxDurationHours {
		return MaxDurationHours
	}
	return h
}
