package entity

import (
	"context"
	"errors"
	"strings"
)

var ErrStageNotFound = errors.New("stage not found")

// StageRole is the tagged role of a pipeline stage. Legacy rows only carry a
// display name ("Devis envoyé", "Confirmé"...), so the role is derived once
// when the row crosses the repository boundary.
type StageRole string

const (
	RoleConfirmed   StageRole = "confirmed"
	RoleLost        StageRole = "lost"
	RoleNegotiation StageRole = "negotiation"
	RoleQuoteSent   StageRole = "quote_sent"
	RoleOther       StageRole = "other"
)

type Stage struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Role               StageRole `json:"role"`
	Order              int       `json:"order"`
	AlertThresholdDays int       `json:"alert_threshold_days"`
	Color              string    `json:"color"`
}

type StageRepository interface {
	FindByID(ctx context.Context, id string) (*Stage, error)
	List(ctx context.Context) ([]Stage, error)
}

// RoleFromName maps the historical stage names (French UI labels and their
// English equivalents) to a tagged role.
func RoleFromName(name string) StageRole {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(n, "devis envoyé"), strings.Contains(n, "quote sent"):
		return RoleQuoteSent
	case strings.Contains(n, "confirmé"), strings.Contains(n, "confirmed"):
		return RoleConfirmed
	case strings.Contains(n, "perdu"), strings.Contains(n, "lost"):
		return RoleLost
	case strings.Contains(n, "négociation"), strings.Contains(n, "negotiation"):
		return RoleNegotiation
	default:
		return RoleOther
	}
}
