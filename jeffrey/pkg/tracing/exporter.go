package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
)

////////////////////////////////////////////////////////////////////////////////

type discardExporter struct{}

func (discardExporter) ExportSpans(context.Context, []trace.ReadOnlySpan) error {
	return nil
}

func (discardExporter) Shutdown(context.Context) error {
	return nil
}

// NewNopExporter drops every span.
func NewNopExporter() trace.SpanExporter {
	return discardExporter{}
}

////////////////////////////////////////////////////////////////////////////////

// NewWriterExporter writes spans to w as JSON documents.
func NewWriterExporter(w io.Writer, pretty bool) (trace.SpanExporter, error) {
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	return stdouttrace.New(opts...)
}

func NewStderrExporter() (trace.SpanExporter, error) {
	return NewWriterExporter(os.Stderr, true)
}

type fileExporter struct {
	trace.SpanExporter
	file *os.File
}

// NewFileExporter appends one JSON document per span to the file at path.
func NewFileExporter(conf FileExporterConfig) (trace.SpanExporter, error) {
	file, err := os.OpenFile(conf.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	exporter, err := NewWriterExporter(file, false)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &fileExporter{SpanExporter: exporter, file: file}, nil
}

// Shutdown implements trace.SpanExporter.
func (e *fileExporter) Shutdown(ctx context.Context) error {
	return errors.Join(e.SpanExporter.Shutdown(ctx), e.file.Close())
}

////////////////////////////////////////////////////////////////////////////////

// fanout sends spans to every exporter, errors of all of them are joined.
type fanout []trace.SpanExporter

// ExportSpans implements trace.SpanExporter.
func (f fanout) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	var errs []error
	for _, exporter := range f {
		errs = append(errs, exporter.ExportSpans(ctx, spans))
	}
	return errors.Join(errs...)
}

// Shutdown implements trace.SpanExporter.
func (f fanout) Shutdown(ctx context.Context) error {
	var errs []error
	for _, exporter := range f {
		errs = append(errs, exporter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func NewMultiExporter(exporters ...trace.SpanExporter) trace.SpanExporter {
	return fanout(exporters)
}

////////////////////////////////////////////////////////////////////////////////

func (c ExporterConfig) build(ctx context.Context) (trace.SpanExporter, error) {
	switch {
	case c.Nop != nil:
		return NewNopExporter(), nil
	case c.Stderr != nil:
		return NewStderrExporter()
	case c.File != nil:
		return NewFileExporter(*c.File)
	case c.OTLP != nil:
		return NewOTLPExporter(ctx, *c.OTLP)
	default:
		return nil, errors.New("no exporter selected")
	}
}

// NewExporter builds the exporters of the config. Already built exporters are
// shut down when a later one fails.
func NewExporter(ctx context.Context, config *Config) (trace.SpanExporter, error) {
	exporters := make(fanout, 0, len(config.Exporters))
	for i, exporterConfig := range config.Exporters {
		exporter, err := exporterConfig.build(ctx)
		if err != nil {
			err = fmt.Errorf("malformed trace exporter config #%d: %w", i, err)
			return nil, errors.Join(err, exporters.Shutdown(ctx))
		}
		exporters = append(exporters, exporter)
	}

	switch len(exporters) {
	case 0:
		return NewNopExporter(), nil
	case 1:
		return exporters[0], nil
	default:
		return exporters, nil
	}
}
