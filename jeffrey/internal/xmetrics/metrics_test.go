package xmetrics

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

func TestRegistryStreamMetrics(t *testing.T) {
	r := NewRegistry(WithNamespace("jeffrey"))

	results := r.CounterVec("guardian.guard-results.total", "Guard results", "group", "severity")
	results.WithLabelValues("execution", "WARNING").Add(2)
	duration := r.HistogramVec("guardian.group.duration_seconds", "Group duration", []float64{0.1, 1}, "group")
	duration.WithLabelValues("execution").Observe(0.5)

	require.EqualValues(t, 2, testutil.ToFloat64(results.WithLabelValues("execution", "WARNING")))

	var buf bytes.Buffer
	require.NoError(t, r.StreamMetrics(context.Background(), &buf))
	require.Contains(t, buf.String(), `jeffrey_guardian_guard_results_total{group="execution",severity="WARNING"} 2`)
	require.Contains(t, buf.String(), `jeffrey_guardian_group_duration_seconds_bucket{group="execution",le="1"} 1`)
}

func TestRegistryStreamMetricsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, NewRegistry().StreamMetrics(ctx, &bytes.Buffer{}), context.Canceled)
}

func TestRegistryHTTPHandler(t *testing.T) {
	r := NewRegistry(WithAddCollectors(collectors.NewGoCollector()))

	rec := httptest.NewRecorder()
	r.HTTPHandler(context.Background(), xlog.NewNop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSanitizePrometheusMetricName(t *testing.T) {
	require.Equal(t, "frame_tree_nodes_count", sanitizePrometheusMetricName("frame-tree.nodes.count"))
}
