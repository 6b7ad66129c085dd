// Package messaging publishes domain events to RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Topology names the exchange, queue and binding a Publisher declares
type Topology struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// Publisher sends JSON messages to a durable direct exchange
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	topology Topology
	mu       sync.Mutex
}

// NewPublisher dials the broker and declares the topology
func NewPublisher(url string, topology Topology) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(channel, topology); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, channel: channel, topology: topology}, nil
}

func declare(channel *amqp091.Channel, t Topology) error {
	err := channel.ExchangeDeclare(
		t.Exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-delete
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", t.Exchange, err)
	}

	_, err = channel.QueueDeclare(
		t.Queue, // name
		true,    // durable
		false,   // auto-delete
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", t.Queue, err)
	}

	if err := channel.QueueBind(t.Queue, t.RoutingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", t.Queue, err)
	}

	return nil
}

// PublishJSON marshals v and publishes it as a persistent message
func (p *Publisher) PublishJSON(ctx context.Context, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.topology.Exchange,   // exchange
		p.topology.RoutingKey, // routing key
		false,                 // mandatory
		false,                 // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
