package domain

import (
	"encoding/json"
	"time"
)

// Membership lifecycle event types sent by the billing platform.
const (
	MembershipStarted   = "membership.started"
	MembershipUpdated   = "membership.updated"
	MembershipCancelled = "membership.cancelled"
)

// MembershipEvent is an audit record of a handled webhook event.
type MembershipEvent struct {
	ID         string
	Type       string
	Email      string
	Payload    json.RawMessage
	OccurredAt time.Time
}
