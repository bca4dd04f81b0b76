package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a lifecycle change.
type EventType string

const (
	EventRequestSubmitted      EventType = "request.submitted"
	EventRequestApproved       EventType = "request.approved"
	EventRequestRejected       EventType = "request.rejected"
	EventRequestDeleted        EventType = "request.deleted"
	EventEmployeeRemoved       EventType = "employee.removed"
	EventSubscriptionActivated EventType = "subscription.activated"
)

// Event is a lifecycle change fanned out to realtime, mail and audit sinks.
type Event struct {
	ID          string                 `json:"id" bson:"_id"`
	Type        EventType              `json:"type" bson:"type"`
	Actor       string                 `json:"actor" bson:"actor"`
	Recipients  []string               `json:"recipients,omitempty" bson:"recipients,omitempty"`
	HREmail     string                 `json:"hrEmail,omitempty" bson:"hrEmail,omitempty"`
	CompanyName string                 `json:"companyName,omitempty" bson:"companyName,omitempty"`
	EntityID    string                 `json:"entityId,omitempty" bson:"entityId,omitempty"`
	Message     string                 `json:"message" bson:"message"`
	Data        map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	OccurredAt  time.Time              `json:"occurredAt" bson:"occurredAt"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(t EventType, actor, message string) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		Actor:      actor,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

// Audience returns every address that should see the event: recipients plus the owning HR.
func (e Event) Audience() []string {
	seen := make(map[string]struct{}, len(e.Recipients)+1)
	out := make([]string, 0, len(e.Recipients)+1)
	for _, addr := range append(append([]string{}, e.Recipients...), e.HREmail) {
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// Publisher accepts events without blocking the caller on delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Sink receives batches of events from the dispatcher.
type Sink interface {
	Name() string
	Handle(ctx context.Context, events []Event) error
}

// Nop drops every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) {}
