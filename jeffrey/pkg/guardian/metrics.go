package guardian

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pbouda/jeffrey/jeffrey/internal/xmetrics"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
)

type metrics struct {
	results  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(registry xmetrics.Registry) *metrics {
	if registry == nil {
		return nil
	}
	return &metrics{
		results: registry.CounterVec(
			"guardian.guard_results_total",
			"Number of guard results by group and severity",
			"group", "severity",
		),
		duration: registry.HistogramVec(
			"guardian.group_duration_seconds",
			"Time spent evaluating a guardian group",
			prometheus.ExponentialBuckets(0.001, 4, 10),
			"group",
		),
	}
}

func (m *metrics) observe(group string, start time.Time, results []guard.Result) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(group).Observe(time.Since(start).Seconds())
	for _, res := range results {
		m.results.WithLabelValues(group, res.Severity.String()).Inc()
	}
}
