// Package pubsub provides a generic in-process pub/sub broker and the hub
// that wires one broker per domain.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

// Standard event types.
const (
	EventCreated   EventType = "created"
	EventUpdated   EventType = "updated"
	EventDeleted   EventType = "deleted"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
	EventProgress  EventType = "progress"
)

// Event wraps a payload with its type and publish time.
type Event[T any] struct { //nolint:govet // fieldalignment: preserving logical field order
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Publisher publishes typed events.
type Publisher[T any] interface {
	Publish(EventType, T)
}

// Subscriber subscribes to typed events.
type Subscriber[T any] interface {
	Subscribe(context.Context) <-chan Event[T]
}

var (
	_ Publisher[struct{}]  = (*Broker[struct{}])(nil)
	_ Subscriber[struct{}] = (*Broker[struct{}])(nil)
)
