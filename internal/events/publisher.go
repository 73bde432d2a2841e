// Package events publishes workflow lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// TypeWorkflowCompleted is emitted once a workflow record has been stored.
const TypeWorkflowCompleted = "workflow.completed"

// WorkflowEvent is the payload published for a workflow.
type WorkflowEvent struct {
	Type             string    `json:"type"`
	WorkflowID       string    `json:"workflow_id"`
	UserID           string    `json:"user_id"`
	Status           string    `json:"status"`
	RecoveryOccurred bool      `json:"recovery_occurred"`
	JobsFound        int       `json:"jobs_found"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// RoutingKey is the topic key the event is published under.
func (e WorkflowEvent) RoutingKey() string {
	return fmt.Sprintf("workflow.%s", e.WorkflowID)
}

// Publisher delivers workflow events.
type Publisher interface {
	Publish(ctx context.Context, event WorkflowEvent) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, WorkflowEvent) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }

// AMQPPublisher publishes events to a topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error declaring exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

// Publish sends event on a short-lived channel.
func (p *AMQPPublisher) Publish(ctx context.Context, event WorkflowEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		event.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

// Close closes the broker connection.
func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}
