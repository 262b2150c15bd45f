package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// EventType is the kind of row change an event describes.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Table names used in events, matching the relational store.
const (
	TablePlayers       = "players"
	TableMatchRequests = "match_requests"
	TableMatches       = "matches"
)

// Event is a single row change. Subscribers filter on UserIDs to find the
// changes that concern them.
type Event struct {
	Type       EventType `msgpack:"type"`
	Table      string    `msgpack:"table"`
	RecordID   string    `msgpack:"record_id"`
	UserIDs    []string  `msgpack:"user_ids"`
	Status     string    `msgpack:"status,omitempty"`
	OccurredAt time.Time `msgpack:"occurred_at"`
}

// Involves reports whether the event concerns userID.
func (e Event) Involves(userID string) bool {
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
