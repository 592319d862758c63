package config

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	AMQPConn    *amqp.Connection
	AMQPChannel *amqp.Channel
)

// InitRabbitMQ dials the broker and declares the durable topic exchange events are published to.
func InitRabbitMQ(url, exchange string) {
	var err error
	AMQPConn, err = amqp.Dial(url)
	if err != nil {
		Logger.Fatal("Error establishing connection with RabbitMQ", zap.Error(err))
	}

	AMQPChannel, err = AMQPConn.Channel()
	if err != nil {
		AMQPConn.Close()
		Logger.Fatal("Error opening RabbitMQ channel", zap.Error(err))
	}

	if err := AMQPChannel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		Logger.Fatal("Error declaring exchange", zap.String("exchange", exchange), zap.Error(err))
	}
	Logger.Info("Connected to RabbitMQ", zap.String("exchange", exchange))
}
