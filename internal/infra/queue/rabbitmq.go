package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.engine"
	DLXName      = "ex.engine.dlx"

	// Inbound: the main product enqueues "schedule a reminder" commands here.
	ScheduleQueueName = "q.followups.schedule"
	ScheduleKey       = "k.followup.schedule"
	ScheduleDLQName   = "q.followups.schedule.dlq"

	// Outbound: one summary event per batch pass, for the ops consumer.
	RunKey = "k.engine.run"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(user, pass, host, port string) (*RabbitMQ, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel failed: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func setupTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(ScheduleDLQName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = ch.QueueBind(ScheduleDLQName, ScheduleKey, DLXName, false, nil)
	if err != nil {
		return err
	}

	err = ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	// Malformed schedule commands are Nacked without requeue and land here.
	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": ScheduleKey,
	}

	_, err = ch.QueueDeclare(ScheduleQueueName, true, false, false, false, args)
	if err != nil {
		return err
	}

	return ch.QueueBind(ScheduleQueueName, ScheduleKey, ExchangeName, false, nil)
}
