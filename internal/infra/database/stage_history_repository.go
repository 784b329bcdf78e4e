package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type StageHistoryRepository struct {
	DB *sql.DB
}

func NewStageHistoryRepository(db *sql.DB) *StageHistoryRepository {
	return &StageHistoryRepository{DB: db}
}

// ListByCard returns the card's transitions oldest first. The table is
// append-only and written by the CRUD side; the engine never mutates it.
func (r *StageHistoryRepository) ListByCard(ctx context.Context, cardID string) ([]entity.StageHistoryEntry, error) {
	query := `
		SELECT card_id, stage_id, moved_at
		FROM stage_history
		WHERE card_id = $1
		ORDER BY moved_at
	`

	rows, err := r.DB.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("stage history scan failed: %w", err)
	}
	defer rows.Close()

	var entries []entity.StageHistoryEntry
	for rows.Next() {
		var e entity.StageHistoryEntry
		if err := rows.Scan(&e.CardID, &e.StageID, &e.MovedAt); err != nil {
			return nil, fmt.Errorf("stage history row scan failed: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
