package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RunSummary is the audit event published after every batch pass.
type RunSummary struct {
	Job     string    `json:"job"`
	RanAt   time.Time `json:"ran_at"`
	Actions int       `json:"actions"`
	Skipped int       `json:"skipped"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishRunSummary(ctx context.Context, summary RunSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("run summary marshal failed: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RunKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("run summary publish failed: %w", err)
	}

	return nil
}
