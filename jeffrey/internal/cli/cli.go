package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pbouda/jeffrey/jeffrey/internal/config"
	"github.com/pbouda/jeffrey/jeffrey/internal/xmetrics"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/samplefilter"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/source"
	"github.com/pbouda/jeffrey/jeffrey/pkg/tracing"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

////////////////////////////////////////////////////////////////////////////////

type Config struct {
	// Path to the YAML config, defaults are used when empty.
	ConfigPath string
	// Overrides the log level of the config file when set.
	LogLevel string
	Timeout  time.Duration
	// Path to dump prometheus metrics to on shutdown, "-" for stderr.
	MetricsDumpPath string
}

func (c *Config) fillDefault() {
	if c.Timeout == time.Duration(0) {
		c.Timeout = time.Minute * 10
	}
}

////////////////////////////////////////////////////////////////////////////////

type App struct {
	conf     *config.Config
	logger   xlog.Logger
	metrics  xmetrics.Registry
	loader   *source.CachedLoader
	dumpPath string
	shutdown func()
	context  context.Context
	cancel   func()
}

func New(cliConfig *Config) (*App, error) {
	cliConfig.fillDefault()

	var err error

	ctx, cancel := context.WithTimeout(context.Background(), cliConfig.Timeout)
	defer func() {
		if err != nil {
			cancel()
		}
	}()

	conf := config.Default()
	if cliConfig.ConfigPath != "" {
		conf, err = config.ParseConfig(cliConfig.ConfigPath, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cliConfig.LogLevel != "" {
		conf.LogLevel = cliConfig.LogLevel
	}

	level, err := xlog.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logger, err := xlog.NewCLILogger(level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err != nil {
			logger.Error(ctx, "Failed to initialize CLI", zap.Error(err))
		}
	}()

	exporter, err := tracing.NewExporter(ctx, conf.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trace exporter: %w", err)
	}

	provider, err := tracing.Initialize(
		context.Background(),
		logger.WithName("tracing"),
		exporter,
		tracing.Service{Project: "jeffrey", Name: "cli"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	loader := source.NewCachedLoader(source.FileLoader{}, conf.Source.CacheSize, conf.Source.CacheTTL)
	shutdown := func() {
		loader.Stop()
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn(ctx, "Failed to flush traces", zap.Error(err))
		}
	}

	app := &App{
		conf:     conf,
		logger:   logger,
		metrics:  xmetrics.NewRegistry(xmetrics.WithNamespace("jeffrey")),
		loader:   loader,
		dumpPath: cliConfig.MetricsDumpPath,
		shutdown: shutdown,
		context:  ctx,
		cancel:   cancel,
	}
	return app, nil
}

////////////////////////////////////////////////////////////////////////////////

func (a *App) Shutdown() {
	if a.dumpPath != "" {
		if err := a.dumpMetrics(); err != nil {
			a.logger.Warn(a.context, "Failed to dump metrics", zap.String("path", a.dumpPath), zap.Error(err))
		}
	}
	a.cancel()
	a.shutdown()
}

func (a *App) dumpMetrics() error {
	if a.dumpPath == "-" {
		return a.metrics.StreamMetrics(a.context, os.Stderr)
	}

	file, err := os.Create(a.dumpPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return a.metrics.StreamMetrics(a.context, file)
}

func (a *App) Config() *config.Config {
	return a.conf
}

func (a *App) Logger() xlog.Logger {
	return a.logger
}

func (a *App) Metrics() xmetrics.Registry {
	return a.metrics
}

func (a *App) Context() context.Context {
	return a.context
}

// Repository serves the files through the shared event cache, filtered as configured.
// Non-empty threads keeps only the events sampled on the named threads.
func (a *App) Repository(files map[record.Kind][]string, threads ...string) *source.FileRepository {
	opts := []source.Option{
		source.WithLoader(a.loader),
		source.WithLogger(a.logger.WithName("source")),
	}
	if a.conf.Source.ExcludeIdle {
		opts = append(opts, source.WithFilters(samplefilter.ExcludeIdle()))
	}
	if len(threads) > 0 {
		opts = append(opts, source.WithFilters(samplefilter.Threads(threads...)))
	}
	return source.NewFileRepository(files, opts...)
}

// TreeOptions returns frame tree options of the config, threadMode forces thread mode on.
func (a *App) TreeOptions(threadMode bool) []frametree.Option {
	opts := make([]frametree.Option, 0, 2)
	if threadMode || a.conf.Source.ThreadMode {
		opts = append(opts, frametree.WithThreadMode())
	}
	if a.conf.Source.MaxStackDepth > 0 {
		opts = append(opts, frametree.WithMaxDepth(a.conf.Source.MaxStackDepth))
	}
	return opts
}

////////////////////////////////////////////////////////////////////////////////
