package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// AMQPBroker publishes jobs to a durable RabbitMQ queue.
type AMQPBroker struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

func NewAMQPBroker(rabbitmqURL string) (*AMQPBroker, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// One unacked job per consumer at a time.
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &AMQPBroker{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
	}, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, body []byte) error {
	return b.channel.Publish(
		"",          // exchange
		b.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (b *AMQPBroker) Consume(ctx context.Context, consumer string) (<-chan Delivery, error) {
	msgs, err := b.channel.Consume(
		b.queueName, // queue
		consumer,    // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return nil, err
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				d := Delivery{
					Body: msg.Body,
					Ack:  func() error { return msg.Ack(false) },
					Nack: func(requeue bool) error { return msg.Nack(false, requeue) },
				}
				select {
				case out <- d:
				case <-ctx.Done():
					msg.Nack(false, true)
					return
				}
			}
		}
	}()
	return out, nil
}

// HealthCheck checks if RabbitMQ is available
func (b *AMQPBroker) HealthCheck(ctx context.Context) string {
	if b.conn == nil || b.conn.IsClosed() {
		return "unhealthy: connection closed"
	}

	if b.channel == nil {
		return "unhealthy: channel not available"
	}

	return "healthy"
}

func (b *AMQPBroker) Close() error {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
