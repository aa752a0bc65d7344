package events

import "context"

// Event types
const (
	EventPoeStatusChanged = "poe_status_changed"
	EventPoeCreated       = "poe_created"
	EventPoeDeleted       = "poe_deleted"
)

// StreamPoe is the channel lifecycle events are published on.
const StreamPoe = "events:poe"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// NopPublisher is used when no event backend is configured; notifications are
// fire-and-forget, so dropping them is acceptable.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
