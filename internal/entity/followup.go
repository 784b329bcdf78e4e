package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrFollowupNotFound = errors.New("followup not found")

// Followup statuses. PENDING rows are claimed to IN_FLIGHT before dispatch so
// that two concurrent scans can never send the same row twice. SENT and
// CANCELLED are terminal.
const (
	FollowupPending   = "PENDING"
	FollowupInFlight  = "IN_FLIGHT"
	FollowupSent      = "SENT"
	FollowupCancelled = "CANCELLED"
)

type ScheduledFollowup struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	CardID       string     `json:"card_id"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Status       string     `json:"status"`
	EmailTo      string     `json:"email_to"`
	EmailSubject string     `json:"email_subject"`
	EmailBody    string     `json:"email_body"`
	Attempts     int        `json:"attempts"`
	CreatedAt    time.Time  `json:"created_at"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

type FollowupRepository interface {
	Create(ctx context.Context, f *ScheduledFollowup) error
	// ClaimDue atomically flips due PENDING rows to IN_FLIGHT and returns them.
	ClaimDue(ctx context.Context, now time.Time) ([]ScheduledFollowup, error)
	// ReleaseStale sweeps IN_FLIGHT rows older than the window back to PENDING.
	ReleaseStale(ctx context.Context, olderThan time.Time) (int, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	// Release puts a claimed row back to PENDING after a failed dispatch and
	// bumps its attempt counter.
	Release(ctx context.Context, id string) error
}

func NewScheduledFollowup(ownerID, cardID string, scheduledAt time.Time, to, subject, body string) (*ScheduledFollowup, error) {
	f := &ScheduledFollowup{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		CardID:       cardID,
		ScheduledAt:  scheduledAt,
		Status:       FollowupPending,
		EmailTo:      to,
		EmailSubject: subject,
		EmailBody:    body,
		CreatedAt:    time.Now(),
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *ScheduledFollowup) Validate() error {
	if f.OwnerID == "" {
		return errors.New("owner_id is required")
	}
	if f.CardID == "" {
		return errors.New("card_id is required")
	}
	if f.ScheduledAt.IsZero() {
		return errors.New("scheduled_at is required")
	}
	if f.EmailTo == "" {
		return errors.New("email_to is required")
	}
	if f.EmailSubject == "" {
		return errors.New("email_subject is required")
	}
	return nil
}
