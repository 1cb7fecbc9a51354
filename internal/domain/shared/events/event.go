package events

import (
	"time"
)

// DomainEvent represents a domain event interface
type DomainEvent interface {
	// GetAggregateID returns the ID of the aggregate that generated the event
	GetAggregateID() string

	// GetEventType returns the type/name of the event
	GetEventType() string

	// GetOccurredAt returns when the event occurred
	GetOccurredAt() time.Time

	// GetVersion returns the event version for schema evolution
	GetVersion() int
}

// BaseEvent provides common fields for all domain events
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Version     int       `json:"version"`
}

// GetAggregateID returns the aggregate ID
func (e BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

// GetEventType returns the event type
func (e BaseEvent) GetEventType() string {
	return e.EventType
}

// GetOccurredAt returns when the event occurred
func (e BaseEvent) GetOccurredAt() time.Time {
	return e.OccurredAt
}

// GetVersion returns the event version
func (e BaseEvent) GetVersion() int {
	return e.Version
}

// Publisher publishes domain events to interested consumers. Delivery is
// at-least-once and fire-and-forget: publishing happens after the controlling
// transaction commits, and failures never roll it back.
type Publisher interface {
	// Publish publishes a single event
	Publish(event DomainEvent) error

	// PublishAll publishes multiple events
	PublishAll(events []DomainEvent) error
}
