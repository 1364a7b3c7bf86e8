package tracing

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

// Version is reported as the service version of exported spans.
var Version = "dev"

// Service describes the process reporting spans.
type Service struct {
	Project string
	Name    string
}

func (s Service) resource() (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.Name),
		semconv.ServiceVersion(Version),
		attribute.String("project", s.Project),
	))
}

// Provider is the installed global tracer provider. Shutdown flushes pending
// spans and stops the exporter.
type Provider struct {
	*sdktrace.TracerProvider
}

// Initialize installs a batching tracer provider over the exporter as the
// global otel provider, with W3C trace context and baggage propagation.
// OpenTelemetry diagnostics go to the logger.
func Initialize(ctx context.Context, logger xlog.Logger, exporter sdktrace.SpanExporter, service Service) (*Provider, error) {
	setOpenTelemetryLogger(logger)

	res, err := service.resource()
	if err != nil {
		err = fmt.Errorf("failed to describe tracing resource: %w", err)
		return nil, errors.Join(err, exporter.Shutdown(ctx))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return &Provider{tp}, nil
}

func setOpenTelemetryLogger(l xlog.Logger) {
	logger := logr.New(newLogrZapSink(l.WithContext(context.Background())))
	otel.SetLogger(logger)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Error(err, "opentelemetry error")
	}))
}
