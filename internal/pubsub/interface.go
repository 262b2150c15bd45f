package pubsub

import "context"

// Publisher pushes row-change events to the change notification feed.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
