package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImageMetrics records blob storage activity driven by product and avatar image changes.
type ImageMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	cleanup    *prometheus.CounterVec
}

// Operation labels.
const (
	OpUpload = "upload"
	OpDelete = "delete"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// NewImageMetrics registers the image metrics on the provided registerer.
func NewImageMetrics(reg prometheus.Registerer) *ImageMetrics {
	if reg == nil {
		return &ImageMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_storage_operations_total",
		Help: "Blob storage uploads and deletes by outcome.",
	}, []string{"op", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_reconcile_duration_seconds",
		Help:    "Duration of image set reconciliations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	cleanup := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_cleanup_events_total",
		Help: "Failed deletes handed to the cleanup queue, and their processing outcome.",
	}, []string{"stage"})
	reg.MustRegister(operations, duration, cleanup)
	return &ImageMetrics{
		operations: operations,
		duration:   duration,
		cleanup:    cleanup,
	}
}

// IncOperation counts one storage call.
func (m *ImageMetrics) IncOperation(op, result string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

// ObserveReconcile records how long a reconciliation took.
func (m *ImageMetrics) ObserveReconcile(result string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(result)).Observe(d.Seconds())
}

// IncCleanup counts cleanup events by stage (enqueued, enqueue_failed, deleted, retried, abandoned).
func (m *ImageMetrics) IncCleanup(stage string) {
	if m == nil || m.cleanup == nil {
		return
	}
	m.cleanup.WithLabelValues(normalizeLabel(stage)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
