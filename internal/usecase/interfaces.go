package usecase

import (
	"context"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/queue"
)

// MailDispatcher resolves the owner's provider credential and delivers one
// message. Implementations must bound the call (the SMTP peer may hang).
type MailDispatcher interface {
	Send(ctx context.Context, ownerID, to, subject, body string) error
}

// RunPublisher pushes a per-run summary onto the audit stream. A publish
// failure never fails the run.
type RunPublisher interface {
	PublishRunSummary(ctx context.Context, summary queue.RunSummary) error
}
