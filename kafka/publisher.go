// Package kafka publishes ledger events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/moneymanager"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer used by the Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is a moneymanager.Publisher writing one JSON message per event.
// Messages are keyed by account name so that they stay ordered.
type Publisher struct {
	writer messageWriter
}

var _ moneymanager.Publisher = (*Publisher)(nil)

// NewPublisher returns a publisher to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Publish writes the event synchronously.
func (p *Publisher) Publish(ctx context.Context, e moneymanager.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", e.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(e.Account),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

// Close flushes pending messages and closes the connections.
func (p *Publisher) Close() error { return p.writer.Close() }
