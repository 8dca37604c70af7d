package messagequeue

import (
	"fmt"

	"github.com/streadway/amqp"
)

// RabbitMQService implements the MessageQueue interface using RabbitMQ.
type RabbitMQService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQServiceConfig contains options for creating a new RabbitMQService.
type NewRabbitMQServiceConfig struct {
	URL string
}

// NewRabbitMQService creates a new instance of RabbitMQService.
func NewRabbitMQService(cfg NewRabbitMQServiceConfig) (MessageQueue, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	return &RabbitMQService{conn: conn, channel: ch}, nil
}

func (s *RabbitMQService) declareQueue(queueName string) error {
	_, err := s.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

// Publish sends a persistent message to the named queue, declaring it if
// necessary.
func (s *RabbitMQService) Publish(queueName string, body []byte) error {
	if err := s.declareQueue(queueName); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}
	err := s.channel.Publish(
		"",        // default exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue '%s': %w", queueName, err)
	}
	return nil
}

// Consume delivers messages from the named queue to handler on a background
// goroutine until the channel closes. Messages are acknowledged after the
// handler returns.
func (s *RabbitMQService) Consume(queueName string, handler func(body []byte)) error {
	if err := s.declareQueue(queueName); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}
	deliveries, err := s.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume from queue '%s': %w", queueName, err)
	}

	go func() {
		for delivery := range deliveries {
			handler(delivery.Body)
			delivery.Ack(false)
		}
	}()
	return nil
}

// Close shuts down the channel and connection.
func (s *RabbitMQService) Close() error {
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
