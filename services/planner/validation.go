package planner

import (
	"regexp"
	"strings"
	"time"

	"saubio/models"
	"saubio/services/estimator"
	"saubio/services/selection"
	"saubio/services/shortnotice"
)

// Validation codes.
const (
	CodeRequired              = "required"
	CodeInvalid               = "invalid"
	CodeStartInPast           = "start_in_past"
	CodeEndBeforeStart        = "end_before_start"
	CodeConflict              = "conflict"
	CodeOutOfRange            = "out_of_range"
	CodeInsufficientProviders = "insufficient_providers"
	CodeConfirmationRequired  = "confirmation_required"
)

// localStartLayout is what datetime-local inputs submit.
const localStartLayout = "2006-01-02T15:04"

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

// IsPostalCode reports whether s is a complete 5-digit postal code.
func IsPostalCode(s string) bool {
	return postalCodePattern.MatchString(strings.TrimSpace(s))
}

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed check. It is an error so it can flow through Submit.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "planner: no validation errors"
	}
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "planner: invalid draft: " + strings.Join(parts, "; ")
}

// Has reports whether field failed with any code.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) add(field, code, msg string) {
	*v = append(*v, FieldError{Field: field, Code: code, Message: msg})
}

// ValidationContext is the outside knowledge validation needs.
type ValidationContext struct {
	Now         time.Time
	Location    *time.Location
	OwnBookings []models.TimeRange
	// Decision is the short notice evaluation for the draft's start, if it parsed.
	Decision *shortnotice.Decision
}

// ParseStart accepts RFC 3339 or a datetime-local value interpreted in loc.
func ParseStart(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(localStartLayout, raw, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Schedule is the draft's start and its end derived from the duration.
func Schedule(d models.PlannerDraft, loc *time.Location) (models.TimeRange, bool) {
	start, ok := ParseStart(d.ScheduledStart, loc)
	if !ok {
		return models.TimeRange{}, false
	}
	end := start.Add(time.Duration(d.DurationHours * float64(time.Hour)))
	return models.TimeRange{Start: start, End: end}, true
}

// Validate checks everything required to submit d. All failures are returned together.
func Validate(d models.PlannerDraft, vc ValidationContext) ValidationErrors {
	var errs ValidationErrors

	validateAddress(&errs, "address", d.Address)
	if d.CleaningAddressEnabled {
		validateAddress(&errs, "cleaningAddress", d.CleaningAddress)
	}

	if d.Service == models.ServiceUpholstery {
		if len(d.ActiveUpholstery()) == 0 {
			errs.add("upholsteryQuantities", CodeRequired, "Select at least one item to clean.")
		}
	} else {
		area := estimator.ParseSurface(d.SurfaceArea)
		switch {
		case strings.TrimSpace(d.SurfaceArea) == "":
			errs.add("surfaceArea", CodeRequired, "Enter the surface to clean.")
		case area == nil || *area <= 0:
			errs.add("surfaceArea", CodeInvalid, "The surface must be a positive number of square meters.")
		}
	}

	validateSchedule(&errs, d, vc)

	if d.RequiredProviders < models.MinRequiredProviders || d.RequiredProviders > models.MaxRequiredProviders {
		errs.add("requiredProviders", CodeOutOfRange, "Choose between 1 and 20 providers.")
	}
	if selection.FromDraft(d).Blocked(d.Mode, d.RequiredProviders) {
		errs.add("selectedProviderIds", CodeInsufficientProviders, "Select more providers or switch to smart match.")
	}

	if !d.TermsAccepted {
		errs.add("termsAccepted", CodeRequired, "Accept the terms to continue.")
	}

	if vc.Decision != nil {
		if err := shortnotice.Confirm(*vc.Decision, d.ShortNoticeAcknowledged); err != nil {
			errs.add("shortNoticeAcknowledged", CodeConfirmationRequired,
				"Confirm that your request is broadcast immediately and the final price is set when a provider accepts.")
		}
	}
	return errs
}

func validateAddress(errs *ValidationErrors, prefix string, a models.Address) {
	if strings.TrimSpace(a.Street) == "" {
		errs.add(prefix+".street", CodeRequired, "Street is required.")
	}
	if strings.TrimSpace(a.StreetNumber) == "" {
		errs.add(prefix+".streetNumber", CodeRequired, "House number is required.")
	}
	switch {
	case strings.TrimSpace(a.PostalCode) == "":
		errs.add(prefix+".postalCode", CodeRequired, "Postal code is required.")
	case !IsPostalCode(a.PostalCode):
		errs.add(prefix+".postalCode", CodeInvalid, "Postal code must have 5 digits.")
	}
	if strings.TrimSpace(a.City) == "" {
		errs.add(prefix+".city", CodeRequired, "City is required.")
	}
}

func validateSchedule(errs *ValidationErrors, d models.PlannerDraft, vc ValidationContext) {
	if strings.TrimSpace(d.ScheduledStart) == "" {
		errs.add("scheduledStart", CodeRequired, "Choose a start date and time.")
		return
	}
	window, ok := Schedule(d, vc.Location)
	if !ok {
		errs.add("scheduledStart", CodeInvalid, "The start date is not valid.")
		return
	}
	if window.Start.Before(vc.Now) {
		errs.add("scheduledStart", CodeStartInPast, "The start time is in the past.")
		return
	}
	if !window.Start.Before(window.End) {
		errs.add("durationHours", CodeEndBeforeStart, "The end must be after the start.")
		return
	}
	for _, own := range vc.OwnBookings {
		if window.Overlaps(own) {
			errs.add("scheduledStart", CodeConflict, "You already have a booking at this time.")
			return
		}
	}
}
