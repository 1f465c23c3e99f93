package events

import "time"

// Event is published on the event bus after a password-reset step or a
// record reload.
type Event interface {
	// EventType is one of the Type constants, e.g. TypeCredentialReset.
	EventType() string

	// Payload never carries secrets: no codes or credentials.
	Payload() map[string]interface{}

	Timestamp() time.Time
}

// BaseEvent is what the constructors in this package return.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
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
