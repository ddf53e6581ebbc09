package ports

import (
	"context"

	"mealmatch/internal/core/domain/events"
)

// EventPublisher defines the contract for emitting notification events to
// external consumers (the notification service alerting users and providers).
//
// Publishing is fire-and-forget with respect to the assignment transaction:
// implementations are called after commit, and a publish failure must never
// fail or roll back the assignment; callers log it and move on.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
