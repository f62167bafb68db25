// Package eventpkg publishes ledger events to RabbitMQ.
package eventpkg

//go:generate mockgen -source publisher.go -destination publisher_mock.go -package eventpkg

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Routing keys of the events emitted after a ledger write is committed.
const (
	KeyAccountCreated     = "account.created"
	KeyAccountDeleted     = "account.deleted"
	KeyTransactionCreated = "transaction.created"
	KeyTransferCompleted  = "transfer.completed"
)

const dialTimeout = 10 * time.Second

// Publisher publishes events to a topic exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

// AMQPPublisher publishes JSON encoded events to a durable topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(rawURL, exchange string) (*AMQPPublisher, error) {
	cleanURL, err := sanitizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()

		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish marshals body and sends it with the given routing key.
//
// A closed channel is reopened once before giving up.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         jsonBody,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	zerolog.Ctx(ctx).Warn().Err(err).Str("routing_key", routingKey).Msg("publish failed, reopening channel")

	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return errors.Join(err, chErr)
	}

	p.channel = ch

	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}

	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher drops events. It is used when no broker is configured or reachable.
type NopPublisher struct{}

// Publish logs the skipped event at debug level.
func (NopPublisher) Publish(ctx context.Context, routingKey string, _ any) error {
	zerolog.Ctx(ctx).Debug().Str("routing_key", routingKey).Msg("event publish skipped")
	return nil
}

// Close does nothing.
func (NopPublisher) Close() {}

// New returns an AMQPPublisher for rawURL, or a NopPublisher when rawURL is empty
// or the broker cannot be reached.
func New(logger zerolog.Logger, rawURL, exchange string) Publisher {
	if strings.TrimSpace(rawURL) == "" {
		logger.Info().Msg("AMQP_URL is empty, events are disabled")
		return NopPublisher{}
	}

	p, err := NewAMQPPublisher(rawURL, exchange)
	if err != nil {
		logger.Warn().Err(err).Msg("cannot connect to the broker, events are disabled")
		return NopPublisher{}
	}

	return p
}

func sanitizeURL(raw string) (string, error) {
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
