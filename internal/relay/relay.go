// Package relay mirrors cart-changed signals onto a Kafka topic so
// external consumers (dashboards, other storefront instances) can
// observe cart activity. Publishing is strictly off the mutation path:
// a broker failure is logged and never surfaces to the user action
// that triggered it.
package relay

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/storage"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event is the wire form of one mirrored cart-changed signal.
type Event struct {
	ID        string      `json:"id"`
	EventType string      `json:"event_type"`
	Lines     []cart.Line `json:"lines"`
	Timestamp time.Time   `json:"timestamp"`
}

const eventCartChanged = "CartChanged"

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: writer}
}

// Attach subscribes the publisher to the store's change signal.
func (p *Publisher) Attach(store *cart.Store) {
	store.Subscribe("kafka-relay", func(lines []cart.Line) {
		if err := p.publish(context.Background(), lines); err != nil {
			log.Printf("[Relay] Failed to publish cart snapshot: %v", err)
		}
	})
}

func (p *Publisher) publish(ctx context.Context, lines []cart.Line) error {
	event := Event{
		ID:        uuid.New().String(),
		EventType: eventCartChanged,
		Lines:     lines,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(storage.Key),
		Value: data,
		Time:  event.Timestamp,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
