package messaging

import (
	"context"
	"time"
)

// Event is the envelope published for domain happenings. Publishing is
// best-effort everywhere in this service: a failed publish is logged and
// never surfaced to the caller.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

// Broker publishes events to interested consumers.
type Broker interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// Publish sends an event through the broker if one is configured. A nil
// broker is a valid no-op configuration.
func Publish(ctx context.Context, broker Broker, topic, eventType string, payload interface{}) error {
	if broker == nil {
		return nil
	}
	return broker.Publish(ctx, topic, &Event{
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
}
