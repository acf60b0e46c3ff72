// Package rabbitmq publishes committed ledger events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/ports/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends events as persistent JSON messages.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *slog.Logger
}

var _ events.Publisher = (*Publisher)(nil)

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewPublisher dials the broker and declares a durable topic exchange.
func NewPublisher(amqpURL, exchange string, logger *slog.Logger) (*Publisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	p, err := newPublisherWithChannel(ch, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisherWithChannel(ch channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *Publisher) PublishTransaction(ctx context.Context, event events.TransactionEvent) error {
	return p.publish(ctx, events.TransactionRoutingKey, event.EventID, event.Type, event)
}

func (p *Publisher) PublishAccountStatus(ctx context.Context, event events.AccountStatusEvent) error {
	return p.publish(ctx, events.AccountRoutingKey, event.EventID, event.Type, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey, messageID, eventType string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	p.logger.Debug("Event published",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", routingKey),
		slog.String("event_id", messageID))
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct {
	Logger *slog.Logger
}

var _ events.Publisher = NoopPublisher{}

func (n NoopPublisher) PublishTransaction(ctx context.Context, event events.TransactionEvent) error {
	n.skipped(event.Type, event.EventID)
	return nil
}

func (n NoopPublisher) PublishAccountStatus(ctx context.Context, event events.AccountStatusEvent) error {
	n.skipped(event.Type, event.EventID)
	return nil
}

func (n NoopPublisher) skipped(eventType, eventID string) {
	if n.Logger != nil {
		n.Logger.Debug("Event publish skipped, no broker configured",
			slog.String("type", eventType),
			slog.String("event_id", eventID))
	}
}

func (NoopPublisher) Close() error { return nil }
