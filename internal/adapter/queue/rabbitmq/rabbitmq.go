// Package rabbitmq bridges the dispatch engine to the property's message
// broker: checkout events come in from the front-desk systems, task
// lifecycle events go out for the dashboard and chat-bot bridge.
package rabbitmq

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	eventExchange = "housekeeping.events"
	checkoutQueue = "housekeeping.checkouts"
)

// Broker holds one AMQP connection shared by the checkout consumer and the
// event publisher.
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *zap.Logger
}

// NewBroker dials the broker, retrying up to 10 times with incremental
// backoff, and declares the event exchange.
func NewBroker(url string, log *zap.Logger) (*Broker, error) {
	var conn *amqp.Connection
	var err error

	maxRetries := 10
	for i := 1; i <= maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr == nil {
				if exErr := ch.ExchangeDeclare(
					eventExchange, // name
					"topic",       // kind
					true,          // durable
					false,         // auto-delete
					false,         // internal
					false,         // no-wait
					nil,           // arguments
				); exErr != nil {
					conn.Close()
					return nil, exErr
				}
				return &Broker{
					conn: conn,
					ch:   ch,
					log:  log,
				}, nil
			}
			err = chErr
			conn.Close()
		}

		log.Warn("Failed to connect to RabbitMQ, retrying...",
			zap.Int("attempt", i),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// Close tears down the channel and connection.
func (b *Broker) Close() {
	if b.ch != nil {
		b.ch.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
