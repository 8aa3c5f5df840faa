package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
)

// CleanupEventType tags cleanup messages on the topic.
const CleanupEventType = "IMAGE_CLEANUP"

// CleanupRequest lists image URLs whose deletion failed and must be retried.
type CleanupRequest struct {
	URLs        []string  `json:"urls"`
	Reason      string    `json:"reason"`
	ProductID   string    `json:"productId,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// CleanupQueue accepts failed deletes for asynchronous retry.
type CleanupQueue interface {
	Enqueue(ctx context.Context, req CleanupRequest) error
}

// PubSubCleanupQueue publishes cleanup requests as JSON messages.
type PubSubCleanupQueue struct {
	publish func(ctx context.Context, msg *pubsub.Message) (string, error)
}

func NewPubSubCleanupQueue(publisher *pubsub.Publisher) (*PubSubCleanupQueue, error) {
	if publisher == nil {
		return nil, errors.New("cleanup publisher is required")
	}
	return &PubSubCleanupQueue{
		publish: func(ctx context.Context, msg *pubsub.Message) (string, error) {
			return publisher.Publish(ctx, msg).Get(ctx)
		},
	}, nil
}

func (q *PubSubCleanupQueue) Enqueue(ctx context.Context, req CleanupRequest) error {
	if len(req.URLs) == 0 {
		return nil
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode cleanup request: %w", err)
	}
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"eventType": CleanupEventType,
			"reason":    req.Reason,
		},
	}
	if _, err := q.publish(ctx, msg); err != nil {
		return fmt.Errorf("publish cleanup request: %w", err)
	}
	return nil
}
