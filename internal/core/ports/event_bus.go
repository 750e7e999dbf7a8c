package ports

import (
	"context"
	"encoding/json"

	"github.com/ark-network/launchsite/internal/core/domain"
)

// Notification is a domain event as delivered to subscribers.
type Notification struct {
	Id      string
	Topic   string
	Type    string
	Payload json.RawMessage
}

type EventBus interface {
	Publish(ctx context.Context, events ...domain.Event) error
	// Subscribe returns a channel of notifications that is closed once ctx is
	// done or the bus is closed.
	Subscribe(ctx context.Context) (<-chan Notification, error)
	Close()
}
