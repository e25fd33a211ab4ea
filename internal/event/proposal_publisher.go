package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ProposalPublisher publishes proposal lifecycle events to RabbitMQ
type ProposalPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewProposalPublisher creates a new proposal event publisher
func NewProposalPublisher(conn *RabbitMQConnection) *ProposalPublisher {
	return &ProposalPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishProposalSubmitted publishes a submission event to the
// proposal_submitted_events queue
func (p *ProposalPublisher) PublishProposalSubmitted(ctx context.Context, event ProposalSubmittedEvent) error {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		ProposalSubmittedQueue, // queue name
		true,                   // durable
		false,                  // delete when unused
		false,                  // exclusive
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal proposal event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                     // exchange
		ProposalSubmittedQueue, // routing key (queue name)
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish proposal event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Proposal event published",
		"queue", ProposalSubmittedQueue,
		"proposal_number", event.ProposalNumber,
	)

	return nil
}

// HealthCheck returns the health status of the publisher
func (p *ProposalPublisher) HealthCheck() PublisherHealthStatus {
	isHealthy := p.conn != nil && p.conn.Connection != nil && !p.conn.Connection.IsClosed()

	return PublisherHealthStatus{
		IsHealthy:         isHealthy,
		MessagesPublished: p.messagesPublished,
		MessagesFailed:    p.messagesFailed,
		LastPublishTime:   p.lastPublishTime,
		Queue:             ProposalSubmittedQueue,
	}
}

// PublisherHealthStatus represents the health status of the publisher
type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}
