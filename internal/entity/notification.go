package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by the engine.
const (
	NotificationStageAlert   = "STAGE_ALERT"
	NotificationFollowupSent = "FOLLOWUP_SENT"
)

type Notification struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ActionURL string    `json:"action_url"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ExistsRecent reports whether the owner already has a notification
	// pointing at actionURL whose message contains the given fragment,
	// created after the since timestamp. Used as the alert dedup key.
	ExistsRecent(ctx context.Context, ownerID, actionURL, messageContains string, since time.Time) (bool, error)
}

func NewNotification(ownerID, typ, message, actionURL string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Type:      typ,
		Message:   message,
		ActionURL: actionURL,
		CreatedAt: time.Now(),
	}
}
