// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/oops"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "holoauth.events"

const heartbeat = 10 * time.Second

// amqpChannel is the subset of *amqp.Channel the publisher uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes JSON events to a durable RabbitMQ topic exchange.
// Safe for concurrent use.
type RabbitPublisher struct {
	mu       sync.Mutex
	conn     interface{ Close() error }
	ch       amqpChannel
	exchange string
	closed   bool
}

// DialRabbit connects to the broker at url and declares the exchange.
func DialRabbit(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return nil, oops.Code("EVENTS_DIAL_FAILED").With("operation", "dial broker").Wrap(err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, oops.Code("EVENTS_DIAL_FAILED").With("operation", "open channel").Wrap(err)
	}

	p, err := newRabbitPublisher(conn, ch, exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func newRabbitPublisher(conn interface{ Close() error }, ch amqpChannel, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, oops.Code("EVENTS_DECLARE_FAILED").With("exchange", exchange).Wrap(err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishUserRegistered implements Publisher.
func (p *RabbitPublisher) PublishUserRegistered(ctx context.Context, event UserRegistered) error {
	return p.publish(ctx, KeyUserRegistered, event.ID, event)
}

func (p *RabbitPublisher) publish(ctx context.Context, key, messageID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return oops.Code("EVENTS_ENCODE_FAILED").With("routing_key", key).Wrap(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return oops.Code("EVENTS_CLOSED").With("routing_key", key).Errorf("publisher is closed")
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return oops.Code("EVENTS_PUBLISH_FAILED").
			With("exchange", p.exchange).
			With("routing_key", key).
			Wrap(err)
	}
	return nil
}

// Close closes the channel and the connection. Further publishes fail.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if err := p.ch.Close(); err != nil {
		errs = append(errs, err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return oops.Code("EVENTS_CLOSE_FAILED").Wrap(errors.Join(errs...))
	}
	return nil
}

var _ Publisher = (*RabbitPublisher)(nil)
