package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"go.uber.org/multierr"

	"github.com/angelmondragon/showroom-backend/internal/media"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/metrics"
)

const defaultMaxAttempts = 5

type imageDeleter interface {
	Delete(ctx context.Context, url string) error
}

type processResult struct {
	ack  bool
	nack bool
}

// CleanupConsumer retries image deletes that failed during a request.
type CleanupConsumer struct {
	store        imageDeleter
	subscription *pubsub.Subscriber
	metrics      *metrics.ImageMetrics
	logg         *logger.Logger
	maxAttempts  int
}

type CleanupConsumerParams struct {
	Store        imageDeleter
	Subscription *pubsub.Subscriber
	Metrics      *metrics.ImageMetrics
	Logger       *logger.Logger
	// MaxAttempts caps redeliveries once the subscription reports delivery attempts.
	MaxAttempts int
}

func NewCleanupConsumer(p CleanupConsumerParams) (*CleanupConsumer, error) {
	if p.Store == nil {
		return nil, errors.New("image store is required")
	}
	if p.Subscription == nil {
		return nil, errors.New("image cleanup subscription is required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger is required")
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &CleanupConsumer{
		store:        p.Store,
		subscription: p.Subscription,
		metrics:      p.Metrics,
		logg:         p.Logger,
		maxAttempts:  maxAttempts,
	}, nil
}

// Run processes cleanup requests until the context is canceled.
func (c *CleanupConsumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *CleanupConsumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	attempt := deliveryAttempt(msg)
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["eventType"],
		"attempt":    attempt,
	})

	if eventType := msg.Attributes["eventType"]; eventType != "" && eventType != media.CleanupEventType {
		c.logg.Info(logCtx, "image.cleanup_skipped")
		return processResult{ack: true}
	}

	var req media.CleanupRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.logg.Error(logCtx, "image.cleanup_decode_failed", err)
		return processResult{ack: true}
	}
	if len(req.URLs) == 0 {
		return processResult{ack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"reason":     req.Reason,
		"urls":       req.URLs,
		"product_id": req.ProductID,
	})

	var errs error
	var remaining []string
	for _, url := range req.URLs {
		if err := c.store.Delete(ctx, url); err != nil {
			c.metrics.IncOperation(metrics.OpDelete, metrics.ResultFailure)
			errs = multierr.Append(errs, err)
			remaining = append(remaining, url)
			continue
		}
		c.metrics.IncOperation(metrics.OpDelete, metrics.ResultSuccess)
	}

	if errs == nil {
		c.metrics.IncCleanup("deleted")
		c.logg.Info(logCtx, "image.cleanup_completed")
		return processResult{ack: true}
	}

	logCtx = c.logg.WithField(logCtx, "remaining_urls", remaining)
	if attempt >= c.maxAttempts {
		c.metrics.IncCleanup("abandoned")
		c.logg.Error(logCtx, "image.cleanup_abandoned", fmt.Errorf("giving up after %d attempts: %w", attempt, errs))
		return processResult{ack: true}
	}

	c.metrics.IncCleanup("retried")
	c.logg.Warn(logCtx, "image.cleanup_retry")
	return processResult{nack: true}
}

// deliveryAttempt is only populated when the subscription has a dead letter policy.
func deliveryAttempt(msg *pubsub.Message) int {
	if msg.DeliveryAttempt == nil {
		return 1
	}
	return *msg.DeliveryAttempt
}
