package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type FollowupRepository struct {
	DB *sql.DB
}

func NewFollowupRepository(db *sql.DB) *FollowupRepository {
	return &FollowupRepository{DB: db}
}

func (r *FollowupRepository) Create(ctx context.Context, f *entity.ScheduledFollowup) error {
	query := `
		INSERT INTO scheduled_followups (
			id,
			owner_id,
			card_id,
			scheduled_at,
			status,
			email_to,
			email_subject,
			email_body,
			attempts,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		f.ID,
		f.OwnerID,
		f.CardID,
		f.ScheduledAt,
		f.Status,
		f.EmailTo,
		f.EmailSubject,
		f.EmailBody,
		f.Attempts,
		f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("followup insert failed: %w", err)
	}

	return nil
}

// ClaimDue flips due PENDING rows to IN_FLIGHT in a single conditional
// UPDATE, so two concurrent scans can never pick up the same row.
func (r *FollowupRepository) ClaimDue(ctx context.Context, now time.Time) ([]entity.ScheduledFollowup, error) {
	query := `
		UPDATE scheduled_followups
		SET status = $1, claimed_at = $2
		WHERE status = $3 AND scheduled_at <= $2
		RETURNING id, owner_id, card_id, scheduled_at, status, email_to, email_subject, email_body, attempts, created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, entity.FollowupInFlight, now, entity.FollowupPending)
	if err != nil {
		return nil, fmt.Errorf("due followup claim failed: %w", err)
	}
	defer rows.Close()

	var due []entity.ScheduledFollowup
	for rows.Next() {
		var f entity.ScheduledFollowup
		err := rows.Scan(
			&f.ID,
			&f.OwnerID,
			&f.CardID,
			&f.ScheduledAt,
			&f.Status,
			&f.EmailTo,
			&f.EmailSubject,
			&f.EmailBody,
			&f.Attempts,
			&f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("claimed followup scan failed: %w", err)
		}
		due = append(due, f)
	}

	return due, rows.Err()
}

// ReleaseStale returns abandoned claims (a pass that crashed mid-batch) to
// PENDING so the next scan retries them.
func (r *FollowupRepository) ReleaseStale(ctx context.Context, olderThan time.Time) (int, error) {
	query := `
		UPDATE scheduled_followups
		SET status = $1, claimed_at = NULL
		WHERE status = $2 AND claimed_at < $3
	`

	res, err := r.DB.ExecContext(ctx, query, entity.FollowupPending, entity.FollowupInFlight, olderThan)
	if err != nil {
		return 0, fmt.Errorf("stale claim release failed: %w", err)
	}

	n, err := res.RowsAffected()
	return int(n), err
}

func (r *FollowupRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE scheduled_followups
		SET status = $1, sent_at = $2, claimed_at = NULL
		WHERE id = $3 AND status = $4
	`
	return r.transition(ctx, query, entity.FollowupSent, at, id)
}

func (r *FollowupRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE scheduled_followups
		SET status = $1, cancelled_at = $2, claimed_at = NULL
		WHERE id = $3 AND status = $4
	`
	return r.transition(ctx, query, entity.FollowupCancelled, at, id)
}

// transition only ever moves IN_FLIGHT rows to a terminal state. A row that
// already reached SENT or CANCELLED cannot be touched again.
func (r *FollowupRepository) transition(ctx context.Context, query, status string, at time.Time, id string) error {
	res, err := r.DB.ExecContext(ctx, query, status, at, id, entity.FollowupInFlight)
	if err != nil {
		return fmt.Errorf("followup transition to %s failed: %w", status, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("followup %s is not in flight: %w", id, entity.ErrFollowupNotFound)
	}

	return nil
}

func (r *FollowupRepository) Release(ctx context.Context, id string) error {
	query := `
		UPDATE scheduled_followups
		SET status = $1, attempts = attempts + 1, claimed_at = NULL
		WHERE id = $2 AND status = $3
	`

	_, err := r.DB.ExecContext(ctx, query, entity.FollowupPending, id, entity.FollowupInFlight)
	if err != nil {
		return fmt.Errorf("followup release failed: %w", err)
	}

	return nil
}
