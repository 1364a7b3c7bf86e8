package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pbouda/jeffrey/jeffrey/internal/cli"
	"github.com/pbouda/jeffrey/jeffrey/pkg/must"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xpflag"
)

var (
	configPath  string
	metricsDump string
	timeout     time.Duration

	logLevel = xpflag.NewOneOf("", "debug", "info", "warn", "error")

	rootCmd = &cobra.Command{
		Use:           "jeffrey",
		Short:         "Analyze JVM profiles: flamegraphs, differential graphs and guardian checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func makeCLI() (*cli.App, error) {
	app, err := cli.New(&cli.Config{
		ConfigPath:      configPath,
		LogLevel:        logLevel.String(),
		Timeout:         timeout,
		MetricsDumpPath: metricsDump,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize CLI: %w", err)
	}
	return app, nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to the YAML config")
	flags.Var(logLevel, "log-level", "Logging level, one of "+logLevel.Variants()+", overrides the config")
	flags.StringVar(&metricsDump, "metrics-dump", "", "Dump prometheus metrics to the file on exit, '-' for stderr")
	flags.DurationVar(&timeout, "timeout", 10*time.Minute, "Timeout of the whole command")

	must.Must(rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
	must.Must(rootCmd.RegisterFlagCompletionFunc("log-level", logLevel.Complete))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
