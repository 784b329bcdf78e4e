package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/gomail.v2"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/usecase"
)

var dispatchErrors = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "engine_dispatch_errors_total",
		Help: "Total number of failed SMTP deliveries",
	},
)

// DefaultTimeout bounds one SMTP delivery. A hung peer must surface as a
// retryable dispatch failure, not stall the whole batch.
const DefaultTimeout = 10 * time.Second

func NewSender(credentials entity.MailCredentialRepository) *Sender {
	return &Sender{
		Credentials: credentials,
		Timeout:     DefaultTimeout,
	}
}

// Send resolves the owner's SMTP credential and delivers one message. The
// dial-and-send runs in its own goroutine so the bounded timeout holds even
// if the peer never answers. Every failure of the channel, credential
// resolution included, comes back as a DispatchFailure: recoverable, the
// followup is retried on the next scan.
func (s *Sender) Send(ctx context.Context, ownerID, to, subject, body string) error {
	cred, err := s.Credentials.FindByOwnerID(ctx, ownerID)
	if err != nil {
		dispatchErrors.Inc()
		return &usecase.DispatchFailure{To: to, Err: fmt.Errorf("mail credential lookup failed for owner %s: %w", ownerID, err)}
	}

	from := cred.From
	if from == "" {
		from = cred.Username
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cred.Host, cred.Port, cred.Username, cred.Password)

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			dispatchErrors.Inc()
			return &usecase.DispatchFailure{To: to, Err: fmt.Errorf("smtp send failed: %w", err)}
		}
		return nil
	case <-ctx.Done():
		dispatchErrors.Inc()
		return &usecase.DispatchFailure{To: to, Err: fmt.Errorf("smtp send timed out after %s: %w", s.Timeout, ctx.Err())}
	}
}
