package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/showroom-backend/internal/media"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/metrics"
)

type stubDeleter struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
}

func (s *stubDeleter) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url)
	return s.failFor[url]
}

func newTestConsumer(t *testing.T, store imageDeleter, reg *prometheus.Registry) *CleanupConsumer {
	t.Helper()
	c, err := NewCleanupConsumer(CleanupConsumerParams{
		Store:        store,
		Subscription: &pubsub.Subscriber{},
		Metrics:      metrics.NewImageMetrics(reg),
		Logger:       logger.New(logger.Options{ServiceName: "test"}),
		MaxAttempts:  3,
	})
	require.NoError(t, err)
	return c
}

func buildMessage(t *testing.T, req media.CleanupRequest, attempt *int) *pubsub.Message {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return &pubsub.Message{
		ID:              "msg-1",
		Data:            data,
		Attributes:      map[string]string{"eventType": media.CleanupEventType},
		DeliveryAttempt: attempt,
	}
}

func intPtr(v int) *int { return &v }

func TestCleanupConsumerAcksWhenAllDeleted(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{}
	reg := prometheus.NewRegistry()
	c := newTestConsumer(t, store, reg)

	req := media.CleanupRequest{URLs: []string{"https://cdn/a.png", "https://cdn/b.png"}, Reason: media.ReasonReconcile}
	result := c.process(context.Background(), buildMessage(t, req, nil))

	require.True(t, result.ack)
	require.False(t, result.nack)
	require.ElementsMatch(t, req.URLs, store.calls)
	count, err := testutil.GatherAndCount(reg, "image_cleanup_events_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCleanupConsumerNacksTransientFailure(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{failFor: map[string]error{"https://cdn/b.png": errors.New("503")}}
	c := newTestConsumer(t, store, prometheus.NewRegistry())

	req := media.CleanupRequest{URLs: []string{"https://cdn/a.png", "https://cdn/b.png"}}
	result := c.process(context.Background(), buildMessage(t, req, intPtr(1)))

	require.True(t, result.nack)
	require.False(t, result.ack)
}

func TestCleanupConsumerAbandonsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{failFor: map[string]error{"https://cdn/a.png": errors.New("503")}}
	c := newTestConsumer(t, store, prometheus.NewRegistry())

	req := media.CleanupRequest{URLs: []string{"https://cdn/a.png"}}
	result := c.process(context.Background(), buildMessage(t, req, intPtr(3)))

	require.True(t, result.ack)
	require.False(t, result.nack)
}

func TestCleanupConsumerAcksUndecodablePayload(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{}
	c := newTestConsumer(t, store, prometheus.NewRegistry())

	msg := &pubsub.Message{ID: "bad", Data: []byte("{not json"), Attributes: map[string]string{"eventType": media.CleanupEventType}}
	result := c.process(context.Background(), msg)

	require.True(t, result.ack)
	require.Empty(t, store.calls)
}

func TestCleanupConsumerSkipsForeignEvents(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{}
	c := newTestConsumer(t, store, prometheus.NewRegistry())

	msg := buildMessage(t, media.CleanupRequest{URLs: []string{"https://cdn/a.png"}}, nil)
	msg.Attributes["eventType"] = "OBJECT_FINALIZE"
	result := c.process(context.Background(), msg)

	require.True(t, result.ack)
	require.Empty(t, store.calls)
}

func TestNewCleanupConsumerRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewCleanupConsumer(CleanupConsumerParams{})
	require.Error(t, err)
}
