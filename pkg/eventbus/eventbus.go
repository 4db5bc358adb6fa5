// Package eventbus publishes template lifecycle events for the surrounding
// platform (notification delivery, audit trails) to consume.
package eventbus

import "context"

// EventBus publishes lifecycle events.
type EventBus interface {
	Publish(ctx context.Context, key string, event Event) error
	Close() error
	GenerateID() string
}
