package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestImageMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewImageMetrics(reg)
	metrics.IncOperation(OpUpload, ResultSuccess)
	metrics.IncOperation(OpUpload, ResultSuccess)
	metrics.IncOperation(OpDelete, ResultFailure)
	metrics.ObserveReconcile(ResultSuccess, 250*time.Millisecond)
	metrics.IncCleanup("enqueued")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "image_storage_operations_total", "op", OpUpload); err != nil {
		t.Fatalf("fetch uploads: %v", err)
	} else if got != 2 {
		t.Fatalf("expected uploads=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "image_storage_operations_total", "result", ResultFailure); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "image_cleanup_events_total", "stage", "enqueued"); err != nil {
		t.Fatalf("fetch cleanup: %v", err)
	} else if got != 1 {
		t.Fatalf("expected cleanup=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "image_reconcile_duration_seconds", "result", ResultSuccess); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestImageMetricsNilSafe(t *testing.T) {
	var m *ImageMetrics
	m.IncOperation(OpUpload, ResultSuccess)
	m.ObserveReconcile(ResultFailure, time.Second)
	m.IncCleanup("")

	unregistered := NewImageMetrics(nil)
	unregistered.IncOperation(OpDelete, ResultSuccess)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
