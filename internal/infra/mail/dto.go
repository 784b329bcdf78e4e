package mail

import (
	"time"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

// Sender delivers followup emails through the owner's own SMTP provider.
type Sender struct {
	Credentials entity.MailCredentialRepository
	Timeout     time.Duration
}
