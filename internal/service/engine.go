package service

import (
	"context"
	"time"

	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/dialogue"
	"abend-assist-be/pkg/events"
)

// ChatEngine is the part of *dialogue.Engine the services use.
type ChatEngine interface {
	Resolve(ctx context.Context, sessionID, utterance string) dialogue.Reply
	Reset(ctx context.Context, sessionID string) error
	Reload(records []abend.Record) error
	Records() *abend.Index
	LoadedAt() time.Time
}

// EventPublisher is satisfied by *nats.Publisher. A nil EventPublisher
// disables events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
