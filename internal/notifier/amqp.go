package notifier

import (
	"context"
	"encoding/json"
	"time"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

// amqpNotifier publishes transition events to a topic exchange, routed by the
// event type (e.g. "reservation.confirmed"), so the notification collaborator
// can bind to the patterns it cares about.
type amqpNotifier struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQPNotifier(amqpURL, exchange string) (Notifier, error) {
	conn, err := amqp091.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &amqpNotifier{conn: conn, channel: channel, exchange: exchange}, nil
}

func (n *amqpNotifier) Notify(ctx context.Context, event domain.TransitionEvent) {
	if event.OccurredOn.IsZero() {
		event.OccurredOn = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.ErrorContext(ctx, "failed to marshal transition event", "type", event.Type, "error", err)
		return
	}

	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   event.OccurredOn,
		},
	)
	if err != nil {
		logger.ErrorContext(ctx, "failed to publish transition event", "type", event.Type, "error", err)
		return
	}
	logger.DebugContext(ctx, "published transition event", "type", event.Type, "reservation_id", event.ReservationID)
}

func (n *amqpNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		return err
	}
	return n.conn.Close()
}
