package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	domcart "example.com/storefront/internal/domain/cart"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes cart events keyed by owner, so one owner's events stay
// ordered within a partition.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, e domcart.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OwnerID),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. It stands in when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e domcart.Event) error { return nil }

func (NopPublisher) Close() error { return nil }
