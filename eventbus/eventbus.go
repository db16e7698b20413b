// Package eventbus fans dispatched gateway events out to an AMQP exchange, for deployments
// that run the connection in one process and consume events in others. It is entirely
// optional: a caller happy driving Manager.ReceiveNextEvent in-process never needs this
// package.
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/hako/durafmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/danlionis/discord-api/gateway"
)

// Logger is the package-wide zerolog.Logger, disabled by default.
var Logger = zerolog.Nop()

const (
	reconnectDelay = 2 * time.Second
	publishTimeout = 5 * time.Second
)

// Publisher publishes DispatchEvents to an AMQP exchange, one routing key per dispatch event
// name, lowercased (e.g. "message_create", "ready"). It reconnects on its own if the broker connection drops;
// callers only ever call Publish.
type Publisher struct {
	url      string
	exchange string

	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials url and declares exchange as a topic exchange, creating it if absent.
func NewPublisher(ctx context.Context, url, exchange string) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange}
	if err := p.connect(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect(ctx context.Context) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{})
	if err != nil {
		return fmt.Errorf("eventbus: dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("eventbus: open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("eventbus: declare exchange %s: %w", p.exchange, err)
	}

	p.conn = conn
	p.channel = channel
	return nil
}

// Publish serializes ev.Raw and publishes it under a routing key derived from ev.Name. On a
// dropped connection it reconnects once and retries before giving up.
func (p *Publisher) Publish(ctx context.Context, ev gateway.DispatchEvent) error {
	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.publish(publishCtx, ev)
	if err == nil {
		return nil
	}

	Logger.Warn().
		Str("reason", err.Error()).
		Str("retry_in", durafmt.Parse(reconnectDelay).String()).
		Msg("eventbus publish failed, reconnecting")

	select {
	case <-time.After(reconnectDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := p.connect(ctx); err != nil {
		return fmt.Errorf("eventbus: reconnect after publish failure: %w", err)
	}

	return p.publish(publishCtx, ev)
}

func (p *Publisher) publish(ctx context.Context, ev gateway.DispatchEvent) error {
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey(ev), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        ev.Raw,
		Timestamp:   time.Now(),
	})
}

// routingKey derives the AMQP topic routing key for a dispatch event, lowercased so
// consumers can bind patterns like "message_create.#" the conventional AMQP way.
func routingKey(ev gateway.DispatchEvent) string {
	key := make([]byte, len(ev.Name))
	for i := 0; i < len(ev.Name); i++ {
		c := ev.Name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		key[i] = c
	}
	return string(key)
}

// Close tears down the channel and connection.
func (p *Publisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
