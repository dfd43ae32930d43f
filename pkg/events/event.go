package events

import (
	"strings"
	"time"
)

const (
	NoteCreated      = "NOTE_CREATED"
	NoteUpdated      = "NOTE_UPDATED"
	NoteDeleted      = "NOTE_DELETED"
	UserRegistered   = "USER_REGISTERED"
	UserLogin        = "USER_LOGIN"
	UserGoogleLinked = "USER_GOOGLE_LINKED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is also the wire envelope on the in-process bus and on NATS.
type BaseEvent struct {
	Type       string                 `json:"type"`
	UserId     string                 `json:"userId"`
	EntityId   string                 `json:"entityId,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// IsNoteEvent reports whether the event concerns a note, i.e. should reach live-sync clients.
func (e BaseEvent) IsNoteEvent() bool {
	return strings.HasPrefix(e.Type, "NOTE_")
}
