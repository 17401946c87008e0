// Package shortnotice classifies a requested start as short notice and derives the
// consequences: forced smart matching, a deposit hold estimate and a confirmation gate.
package shortnotice

import (
	"errors"
	"math"
	"time"

	"saubio/models"
)

// ThresholdDays is the largest lead time, in calendar days, still considered short notice.
const ThresholdDays = 1

var ErrConfirmationRequired = errors.New("shortnotice: the customer must confirm the immediate broadcast")

// LeadTimeDays counts calendar days between today and the requested start, both taken in now's location.
// Past starts yield 0.
func LeadTimeDays(start, now time.Time) int {
	start = start.In(now.Location())
	sy, sm, sd := start.Date()
	ny, nm, nd := now.Date()
	// Calendar dates in UTC keep every day exactly 24h long, whatever DST does locally.
	startDay := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	days := int(math.Floor(startDay.Sub(today).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func IsShortNotice(leadTimeDays int) bool {
	return leadTimeDays <= ThresholdDays
}

// Input collects what the policy looks at.
type Input struct {
	Start                  time.Time
	Now                    time.Time
	RequestedMode          models.MatchingMode
	SelectedProviders      int
	DurationHours          float64
	AverageHourlyRateCents *int64
	PlatformFeeCents       int64
}

// Decision is the outcome of Evaluate.
type Decision struct {
	LeadTimeDays int                 `json:"leadTimeDays"`
	ShortNotice  bool                `json:"shortNotice"`
	Mode         models.MatchingMode `json:"mode"`
	// ModeForced is set when a manual request was overridden to smart_match.
	ModeForced bool `json:"modeForced"`
	// SelectionKept is set when the overridden manual picks survive as a preference list.
	SelectionKept        bool   `json:"selectionKept"`
	DepositHoldCents     *int64 `json:"depositHoldCents,omitempty"`
	RequiresConfirmation bool   `json:"requiresConfirmation"`
}

// Evaluate applies the short notice policy.
func Evaluate(in Input) Decision {
	lead := LeadTimeDays(in.Start, in.Now)
	d := Decision{
		LeadTimeDays: lead,
		ShortNotice:  IsShortNotice(lead),
	}

	if !d.ShortNotice {
		d.Mode = in.RequestedMode
		if d.Mode == "" {
			d.Mode = models.ModeManual
		}
		return d
	}

	d.Mode = models.ModeSmartMatch
	d.RequiresConfirmation = true
	if in.RequestedMode == models.ModeManual {
		d.ModeForced = true
		d.SelectionKept = in.SelectedProviders > 0
	}
	d.DepositHoldCents = DepositHold(in.AverageHourlyRateCents, in.DurationHours, in.PlatformFeeCents)
	return d
}

// DepositHold estimates the pre-authorisation. Unknown rates give nil, which is not an error.
func DepositHold(avgHourlyRateCents *int64, durationHours float64, platformFeeCents int64) *int64 {
	if avgHourlyRateCents == nil || *avgHourlyRateCents <= 0 {
		return nil
	}
	cents := int64(math.Round(float64(*avgHourlyRateCents)*durationHours + float64(platformFeeCents)))
	return &cents
}

// Confirm enforces the confirmation dialog before leaving the planning step.
func Confirm(d Decision, acknowledged bool) error {
	if d.RequiresConfirmation && !acknowledged {
		return ErrConfirmationRequired
	}
	return nil
}
