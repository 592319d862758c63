package rabbitmq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventPublisher publishes outbox events to a topic exchange, routed by event type.
type EventPublisher struct {
	Channel  *amqp.Channel
	Exchange string
}

func NewEventPublisher(channel *amqp.Channel, exchange string) *EventPublisher {
	return &EventPublisher{Channel: channel, Exchange: exchange}
}

func (p *EventPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}
	return p.Channel.PublishWithContext(ctx, p.Exchange, routingKey, false, false, msg)
}

// LogPublisher stands in for the broker when none is configured.
type LogPublisher struct {
	Logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{Logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	p.Logger.Info("event", zap.String("routingKey", routingKey), zap.ByteString("body", body))
	return nil
}
