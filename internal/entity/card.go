package entity

import (
	"context"
	"errors"
	"time"
)

var ErrCardNotFound = errors.New("card not found")

type Card struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	StageID         string     `json:"stage_id"`
	Title           string     `json:"title"`
	Amount          int        `json:"amount"` // cents
	EnteredStageAt  time.Time  `json:"entered_stage_at"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PipelineCard is a card joined with the fields of its current stage that the
// monitor needs. Built and validated once at the repository boundary.
type PipelineCard struct {
	Card
	StageName          string    `json:"stage_name"`
	StageRole          StageRole `json:"stage_role"`
	AlertThresholdDays int       `json:"alert_threshold_days"`
}

func (p *PipelineCard) Validate() error {
	if p.ID == "" {
		return errors.New("card id is required")
	}
	if p.OwnerID == "" {
		return errors.New("card owner_id is required")
	}
	if p.StageID == "" {
		return errors.New("card stage_id is required")
	}
	if p.EnteredStageAt.IsZero() {
		return errors.New("card entered_stage_at is required")
	}
	if p.AlertThresholdDays < 0 {
		return errors.New("stage alert_threshold_days must be >= 0")
	}
	return nil
}

type CardRepository interface {
	FindByID(ctx context.Context, id string) (*Card, error)
	ListPipeline(ctx context.Context) ([]PipelineCard, error)
	UpdateLastContactedAt(ctx context.Context, cardID string, at time.Time) error
}
