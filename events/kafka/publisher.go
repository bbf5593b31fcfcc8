// Package kafka publishes events to Kafka with segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/warp/cashflow-engine/events"
)

// Publisher writes JSON-encoded events to Kafka.
type Publisher struct {
	writer *kafka.Writer
}

var _ events.Publisher = (*Publisher)(nil)

// NewPublisher creates a publisher for brokers. The topic is chosen per
// message.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	msg, err := message(topic, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func message(topic string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding event for %s: %w", topic, err)
	}

	msg := kafka.Message{Topic: topic, Value: data}
	if k, ok := event.(events.Keyed); ok {
		msg.Key = []byte(k.EventKey())
	}
	return msg, nil
}
