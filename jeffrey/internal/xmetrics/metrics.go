package xmetrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

type prometheusHTTPHandler struct {
	logCtx   context.Context
	logger   xlog.Logger
	registry *prometheusRegistry
}

func (h *prometheusHTTPHandler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	rw.Header().Set("Content-Type", string(expfmt.FmtText))
	err := h.registry.StreamMetrics(ctx, rw)
	if err != nil {
		h.logger.Warn(
			h.logCtx,
			"Failed to serve metrics",
			zap.Error(err),
		)
	}
}

type prometheusRegistry struct {
	*prometheus.Registry
	namespace string
}

func (r *prometheusRegistry) CounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      sanitizePrometheusMetricName(name),
		Help:      help,
	}, labels)
	r.MustRegister(counter)
	return counter
}

func (r *prometheusRegistry) HistogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      sanitizePrometheusMetricName(name),
		Help:      help,
		Buckets:   buckets,
	}, labels)
	r.MustRegister(histogram)
	return histogram
}

func (r *prometheusRegistry) HTTPHandler(ctx context.Context, logger xlog.Logger) http.Handler {
	return &prometheusHTTPHandler{
		logCtx:   ctx,
		logger:   logger,
		registry: r,
	}
}

// StreamMetrics writes every registered metric in the prometheus text format.
func (r *prometheusRegistry) StreamMetrics(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	families, err := r.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}

func NewRegistry(options ...Option) Registry {
	conf := collectOptions(options...)

	registry := prometheus.NewRegistry()
	registry.MustRegister(conf.collectors...)

	return &prometheusRegistry{Registry: registry, namespace: conf.namespace}
}

// See https://prometheus.io/docs/concepts/data_model/#metric-names-and-labels
var prometheusMetricSanitizer = strings.NewReplacer(
	".", "_",
	"-", "_",
)

func sanitizePrometheusMetricName(name string) string {
	return prometheusMetricSanitizer.Replace(name)
}
