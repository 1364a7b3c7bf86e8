package xmetrics

import (
	"context"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer

	CounterVec(name, help string, labels ...string) *prometheus.CounterVec
	HistogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec

	HTTPHandler(ctx context.Context, logger xlog.Logger) http.Handler
	StreamMetrics(ctx context.Context, w io.Writer) error
}
