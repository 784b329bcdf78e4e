package usecase

import (
	"time"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type UrgencyTier string

const (
	TierLow      UrgencyTier = "low"
	TierModerate UrgencyTier = "moderate"
	TierElevated UrgencyTier = "elevated"
	TierHigh     UrgencyTier = "high"
)

// Urgency is the display classification derived from dwell time. Urgent and
// Pulse are the flags the pipeline board reads.
type Urgency struct {
	Tier   UrgencyTier `json:"tier"`
	Urgent bool        `json:"urgent"`
	Pulse  bool        `json:"pulse"`
}

// DwellDays is the number of whole days the card has been in its current
// stage. Clock skew (entered_stage_at in the future) clamps to 0.
func DwellDays(c entity.Card, now time.Time) int {
	d := now.Sub(c.EnteredStageAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

func UrgencyFor(dwellDays int) Urgency {
	switch {
	case dwellDays <= 2:
		return Urgency{Tier: TierLow}
	case dwellDays <= 5:
		return Urgency{Tier: TierModerate}
	case dwellDays <= 10:
		return Urgency{Tier: TierElevated}
	case dwellDays <= 15:
		return Urgency{Tier: TierHigh, Urgent: true}
	default:
		return Urgency{Tier: TierHigh, Urgent: true, Pulse: true}
	}
}
