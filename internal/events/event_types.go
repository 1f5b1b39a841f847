package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a membership lifecycle event.
type EventType string

// Lifecycle event types mirrored from the billing platform webhook.
const (
	EventMembershipStarted   EventType = "membership.started"
	EventMembershipUpdated   EventType = "membership.updated"
	EventMembershipCancelled EventType = "membership.cancelled"
)

// Event is a handled membership state change published on the dispatcher.
type Event struct {
	ID         string
	Type       EventType
	Email      string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// NewEvent stamps a fresh event with an id and timestamp.
func NewEvent(eventType EventType, email string, payload json.RawMessage) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Email:      email,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}
