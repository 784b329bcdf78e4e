package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, owner_id, type, message, action_url, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		n.ID,
		n.OwnerID,
		n.Type,
		n.Message,
		n.ActionURL,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("notification insert failed: %w", err)
	}

	return nil
}

// ExistsRecent is the alert dedup lookup: same owner, same action target,
// message containing the card title, inside the lookback window. POSITION
// keeps it a plain substring check (no LIKE wildcard surprises from titles).
func (r *NotificationRepository) ExistsRecent(ctx context.Context, ownerID, actionURL, messageContains string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM notifications
			WHERE owner_id = $1
			  AND action_url = $2
			  AND POSITION($3 IN message) > 0
			  AND created_at > $4
		)
	`

	var exists bool
	err := r.DB.QueryRowContext(ctx, query, ownerID, actionURL, messageContains, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("notification dedup lookup failed: %w", err)
	}

	return exists, nil
}
