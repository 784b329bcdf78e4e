package entity

import (
	"context"
	"time"
)

// StageHistoryEntry is append-only: one row per stage transition, never
// mutated or deleted.
type StageHistoryEntry struct {
	CardID  string    `json:"card_id"`
	StageID string    `json:"stage_id"`
	MovedAt time.Time `json:"moved_at"`
}

// The CRUD side of the product writes history rows on every stage change;
// the engine only reads them.
type StageHistoryRepository interface {
	ListByCard(ctx context.Context, cardID string) ([]StageHistoryEntry, error)
}
