package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type CardRepository struct {
	DB *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{DB: db}
}

func (r *CardRepository) FindByID(ctx context.Context, id string) (*entity.Card, error) {
	query := `
		SELECT id, owner_id, stage_id, title, amount, entered_stage_at, last_contacted_at, created_at
		FROM cards
		WHERE id = $1
	`

	var c entity.Card
	var lastContacted sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.OwnerID,
		&c.StageID,
		&c.Title,
		&c.Amount,
		&c.EnteredStageAt,
		&lastContacted,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("card lookup failed: %w", err)
	}

	if lastContacted.Valid {
		c.LastContactedAt = &lastContacted.Time
	}

	return &c, nil
}

// ListPipeline loads every card joined with the stage fields the monitor
// needs. Rows are validated here, once, and the stage role is derived from
// the legacy name when the stored role is empty.
func (r *CardRepository) ListPipeline(ctx context.Context) ([]entity.PipelineCard, error) {
	query := `
		SELECT
			c.id,
			c.owner_id,
			c.stage_id,
			c.title,
			c.amount,
			c.entered_stage_at,
			c.last_contacted_at,
			c.created_at,
			s.name,
			COALESCE(s.role, ''),
			s.alert_threshold_days
		FROM cards c
		JOIN stages s ON s.id = c.stage_id
		ORDER BY c.created_at
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pipeline scan failed: %w", err)
	}
	defer rows.Close()

	var cards []entity.PipelineCard
	for rows.Next() {
		var p entity.PipelineCard
		var lastContacted sql.NullTime
		var role string

		err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.StageID,
			&p.Title,
			&p.Amount,
			&p.EnteredStageAt,
			&lastContacted,
			&p.CreatedAt,
			&p.StageName,
			&role,
			&p.AlertThresholdDays,
		)
		if err != nil {
			return nil, fmt.Errorf("pipeline row scan failed: %w", err)
		}

		if lastContacted.Valid {
			p.LastContactedAt = &lastContacted.Time
		}
		if role == "" {
			p.StageRole = entity.RoleFromName(p.StageName)
		} else {
			p.StageRole = entity.StageRole(role)
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid pipeline card %q: %w", p.ID, err)
		}

		cards = append(cards, p)
	}

	return cards, rows.Err()
}

func (r *CardRepository) UpdateLastContactedAt(ctx context.Context, cardID string, at time.Time) error {
	query := `UPDATE cards SET last_contacted_at = $1 WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, at, cardID)
	if err != nil {
		return fmt.Errorf("last_contacted_at update failed: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCardNotFound
	}

	return nil
}
