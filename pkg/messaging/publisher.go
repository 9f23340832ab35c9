// Package messaging defines the outbound event contract of the catalog.
package messaging

import (
	"context"
)

// Event is a message bound for a subject under CatalogSubjects.
type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards every event. It is used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
