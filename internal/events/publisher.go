package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"go.uber.org/zap"
)

const (
	exchangeName = "netvista.revenue"
	routingKey   = "commission.calculated"
)

// CommissionsCalculatedEvent is the message published after a commission
// run so downstream payout systems can persist and schedule payments.
type CommissionsCalculatedEvent struct {
	PartnerID    string                `json:"partner_id"`
	Commissions  []business.Commission `json:"commissions"`
	CalculatedAt time.Time             `json:"calculated_at"`
}

// Publisher emits commission events to RabbitMQ
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewPublisher connects to RabbitMQ and declares the revenue exchange
func NewPublisher(amqpURL string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:    conn,
		channel: channel,
		logger:  logger.Log,
	}, nil
}

// PublishCommissionsCalculated publishes one event per commission run
func (p *Publisher) PublishCommissionsCalculated(ctx context.Context, partnerID string, commissions []business.Commission) error {
	event := CommissionsCalculatedEvent{
		PartnerID:    partnerID,
		Commissions:  commissions,
		CalculatedAt: time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode commission event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish commission event: %w", err)
	}

	p.logger.Info("Published commissions calculated event",
		zap.String("partner_id", partnerID),
		zap.Int("commission_count", len(commissions)))

	return nil
}

// Close releases the channel and connection
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return p.conn.Close()
}

// NoopPublisher satisfies the publisher interface when messaging is not
// configured
type NoopPublisher struct{}

func (NoopPublisher) PublishCommissionsCalculated(ctx context.Context, partnerID string, commissions []business.Commission) error {
	return nil
}
