package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/api/option"
)

// New creates a publisher for topicID in the given GCP project.
func New(ctx context.Context, projectID, topicID string, opts ...option.ClientOption) (Publisher, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{
		client: pubSubC,
		topic:  pubSubC.Topic(topicID),
	}, nil
}

func (c *client) Publish(ctx context.Context, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	message := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type":  string(event.Type),
			"table": event.Table,
		},
	}
	serverID, err := c.topic.Publish(ctx, message).Get(ctx)
	if err != nil {
		log.Error("Failed to publish change event", "error", err, "topic", c.topic.ID(), "table", event.Table)
		return err
	}
	log.FromContext(ctx).Debug("Published change event", "serverID", serverID, "table", event.Table, "record_id", event.RecordID)
	return nil
}

func (c *client) Close() error {
	c.topic.Stop()
	return c.client.Close()
}

// Encode serializes an event for the wire.
func Encode(event Event) ([]byte, error) {
	data, err := msgpack.Marshal(event)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, err
	}
	return data, nil
}

// Decode unmarshals a message payload into event.
func Decode(data []byte, event *Event) error {
	if err := msgpack.Unmarshal(data, event); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

// LogPublisher writes events to the log. It is used when no feed is configured.
type LogPublisher struct{}

func NewLogPublisher() LogPublisher {
	return LogPublisher{}
}

func (LogPublisher) Publish(ctx context.Context, event Event) error {
	log.FromContext(ctx).Debug("Change event", "type", event.Type, "table", event.Table, "record_id", event.RecordID, "status", event.Status)
	return nil
}

func (LogPublisher) Close() error {
	return nil
}
