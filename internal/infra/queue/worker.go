package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

// SchedulePayload is the "schedule a reminder" command the main product
// enqueues when a user asks for an automated followup on a card.
type SchedulePayload struct {
	OwnerID      string    `json:"owner_id"`
	CardID       string    `json:"card_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	EmailTo      string    `json:"email_to"`
	EmailSubject string    `json:"email_subject"`
	EmailBody    string    `json:"email_body"`
}

// Worker consumes schedule commands and turns them into PENDING followup
// rows. It never sends anything itself; the scheduler pass does that.
type Worker struct {
	Channel   *amqp.Channel
	Followups entity.FollowupRepository
}

func NewWorker(ch *amqp.Channel, followups entity.FollowupRepository) *Worker {
	return &Worker{
		Channel:   ch,
		Followups: followups,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		logrus.Fatalf("rabbitmq consumer registration failed: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload SchedulePayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				logrus.WithError(err).Error("worker: malformed schedule command, dead-lettering")
				// Poison message. Reject without requeue so it lands in the DLQ.
				d.Nack(false, false)
				continue
			}

			if requeue, err := w.handle(context.Background(), payload); err != nil {
				logrus.WithError(err).Errorf("worker: schedule command failed for card %s", payload.CardID)
				// Invalid commands dead-letter; a store hiccup requeues so the
				// command survives until the database comes back.
				d.Nack(false, requeue)
				continue
			}

			logrus.Infof("worker: followup queued for card %s at %s", payload.CardID, payload.ScheduledAt.Format(time.RFC3339))
			d.Ack(false)
		}
	}()

	logrus.Infof("worker: waiting on queue '%s'", queueName)
	<-forever
}

// handle reports, along with the error, whether the command should go back
// on the queue: validation failures are permanent, store failures are not.
func (w *Worker) handle(ctx context.Context, payload SchedulePayload) (bool, error) {
	f, err := entity.NewScheduledFollowup(
		payload.OwnerID,
		payload.CardID,
		payload.ScheduledAt,
		payload.EmailTo,
		payload.EmailSubject,
		payload.EmailBody,
	)
	if err != nil {
		return false, err
	}

	if err := w.Followups.Create(ctx, f); err != nil {
		return true, err
	}

	return false, nil
}
