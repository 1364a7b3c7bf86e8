package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbouda/jeffrey/jeffrey/internal/cli"
	"github.com/pbouda/jeffrey/jeffrey/internal/xmetrics"
	"github.com/pbouda/jeffrey/jeffrey/pkg/atomicfs"
	"github.com/pbouda/jeffrey/jeffrey/pkg/must"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

////////////////////////////////////////////////////////////////////////////////

// Sink delivers a rendered JSON document.
type Sink interface {
	Store(ctx context.Context, document []byte) error
}

type sinkOptions struct {
	outputPath   string
	serveAddress string
}

func addSinkOptions(cmd *cobra.Command, opts *sinkOptions) {
	cmd.Flags().StringVarP(
		&opts.outputPath,
		"output",
		"o",
		"-",
		"Output path, '-' for stdout",
	)
	cmd.Flags().StringVarP(
		&opts.serveAddress,
		"serve",
		"S",
		"",
		"Address to serve the document and metrics at",
	)
	must.Must(cmd.MarkFlagFilename("output", "json"))
	cmd.MarkFlagsMutuallyExclusive("serve", "output")
}

func makeSink(app *cli.App, opts *sinkOptions) Sink {
	if opts.serveAddress != "" {
		return &HTTPSink{
			logger:  app.Logger().WithName("sink"),
			address: opts.serveAddress,
			metrics: app.Metrics(),
		}
	}
	return &FileSink{logger: app.Logger().WithName("sink"), path: opts.outputPath}
}

////////////////////////////////////////////////////////////////////////////////

// FileSink writes the document atomically, or to stdout for an empty path or "-".
type FileSink struct {
	logger xlog.Logger
	path   string
}

func (s *FileSink) Store(ctx context.Context, document []byte) error {
	if s.path == "" || s.path == "-" {
		_, err := os.Stdout.Write(document)
		return err
	}

	s.logger.Info(ctx, "Writing document",
		zap.String("path", s.path),
		zap.Int("bytes", len(document)),
	)
	return atomicfs.WriteFile(s.path, document)
}

////////////////////////////////////////////////////////////////////////////////

// HTTPSink serves the document at "/" and the metrics at "/metrics" until the context is done.
type HTTPSink struct {
	logger  xlog.Logger
	address string
	metrics xmetrics.Registry
}

func (s *HTTPSink) Store(ctx context.Context, document []byte) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug(ctx, "Got request", zap.String("url", r.URL.String()))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(document)
	})
	mux.Handle("/metrics", s.metrics.HTTPHandler(ctx, s.logger))

	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen at %s: %w", s.address, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	s.logger.Info(ctx, "Serving document", zap.String("address", "http://"+ln.Addr().String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
