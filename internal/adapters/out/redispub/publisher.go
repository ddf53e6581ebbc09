// Package redispub publishes notification events to a Redis channel consumed
// by the notification service. Publishing is fire-and-forget: a failed
// publish is logged and swallowed so it can never affect an assignment that
// has already committed.
package redispub

import (
	"context"
	"encoding/json"
	"log/slog"

	"mealmatch/internal/core/domain/events"

	"github.com/redis/go-redis/v9"
)

// envelope is the wire format for published events.
type envelope struct {
	Name    string      `json:"name"`
	Payload interface{} `json:"payload"`
}

// wirePayload maps a domain event to its JSON payload. Domain value objects
// keep their internals private, so the mapping is explicit per event type.
func wirePayload(event events.Event) interface{} {
	switch e := event.(type) {
	case events.OrderAssigned:
		return map[string]string{
			"order_id":    e.OrderID.String(),
			"provider_id": e.ProviderID.String(),
		}
	case events.OrderUnmatched:
		return map[string]string{
			"order_id": e.OrderID.String(),
			"reason":   e.Reason,
		}
	default:
		return nil
	}
}

// Publisher implements ports.EventPublisher over a Redis pub/sub channel.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a publisher sending events to the given channel on the
// Redis instance at addr.
func NewPublisher(addr, channel string) *Publisher {
	return &Publisher{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
	}
}

// Publish serializes the event and sends it to the notification channel.
// Failures are logged and reported but callers treat them as non-fatal.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(envelope{
		Name:    event.Name(),
		Payload: wirePayload(event),
	})
	if err != nil {
		slog.Error("failed to serialize event", "event", event.Name(), "error", err)
		return err
	}

	if err = p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		slog.Error("failed to publish event", "event", event.Name(), "channel", p.channel, "error", err)
		return err
	}

	return nil
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
