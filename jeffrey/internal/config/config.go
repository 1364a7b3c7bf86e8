package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pbouda/jeffrey/jeffrey/pkg/tracing"
)

type GroupConfig struct {
	// Overrides the minimum number of samples the group needs to run its guards.
	MinimumSamples *uint64 `yaml:"minimum_samples,omitempty"`
	Disabled       bool    `yaml:"disabled,omitempty"`
}

type GuardianConfig struct {
	// Keyed by group name: execution, allocation, blocking.
	Groups map[string]GroupConfig `yaml:"groups,omitempty"`
	// Keyed by guard name.
	Thresholds     map[string]float64 `yaml:"thresholds,omitempty"`
	DisabledGuards []string           `yaml:"disabled_guards,omitempty"`
}

type FlameGraphConfig struct {
	MinWidthRatio *float64 `yaml:"min_width_ratio,omitempty"`
	MaxDepth      int      `yaml:"max_depth,omitempty"`
	Weight        bool     `yaml:"weight,omitempty"`
}

type SourceConfig struct {
	CacheSize     int64         `yaml:"cache_size"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	ExcludeIdle   bool          `yaml:"exclude_idle,omitempty"`
	ThreadMode    bool          `yaml:"thread_mode,omitempty"`
	MaxStackDepth int           `yaml:"max_stack_depth,omitempty"`
}

type Config struct {
	LogLevel   string            `yaml:"log_level"`
	Guardian   *GuardianConfig   `yaml:"guardian"`
	FlameGraph *FlameGraphConfig `yaml:"flamegraph"`
	Source     *SourceConfig     `yaml:"source"`
	Tracing    *tracing.Config   `yaml:"tracing"`
}

const (
	defaultLogLevel      = "info"
	defaultMinWidthRatio = 0.001
	defaultMaxDepth      = 1000
	defaultCacheSize     = 16
	defaultCacheTTL      = 10 * time.Minute
)

func (c *Config) FillDefault() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}

	if c.Guardian == nil {
		c.Guardian = &GuardianConfig{}
	}

	if c.FlameGraph == nil {
		c.FlameGraph = &FlameGraphConfig{}
	}
	if c.FlameGraph.MinWidthRatio == nil {
		ratio := defaultMinWidthRatio
		c.FlameGraph.MinWidthRatio = &ratio
	}
	if c.FlameGraph.MaxDepth == 0 {
		c.FlameGraph.MaxDepth = defaultMaxDepth
	}

	if c.Source == nil {
		c.Source = &SourceConfig{}
	}
	if c.Source.CacheSize == 0 {
		c.Source.CacheSize = defaultCacheSize
	}
	if c.Source.CacheTTL == 0 {
		c.Source.CacheTTL = defaultCacheTTL
	}

	if c.Tracing == nil {
		c.Tracing = tracing.NewDefaultConfig()
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Guardian != nil {
		for name, threshold := range c.Guardian.Thresholds {
			if threshold < 0 || threshold > 1 {
				errs = append(errs, fmt.Errorf("guardian: threshold of %q must be within [0, 1], got %v", name, threshold))
			}
		}
	}

	if c.FlameGraph != nil {
		if ratio := c.FlameGraph.MinWidthRatio; ratio != nil && (*ratio < 0 || *ratio >= 1) {
			errs = append(errs, fmt.Errorf("flamegraph: min_width_ratio must be within [0, 1), got %v", *ratio))
		}
		if c.FlameGraph.MaxDepth < 0 {
			errs = append(errs, fmt.Errorf("flamegraph: max_depth must not be negative, got %d", c.FlameGraph.MaxDepth))
		}
	}

	if c.Source != nil && c.Source.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("source: cache_size must not be negative, got %d", c.Source.CacheSize))
	}

	return errors.Join(errs...)
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	conf := &Config{}
	conf.FillDefault()
	return conf
}

func ParseConfig(path string, strict bool) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open config file: %w", err)
	}
	defer file.Close()

	return Decode(file, strict)
}

// Decode reads a YAML config. Strict decoding rejects unknown fields.
func Decode(r io.Reader, strict bool) (*Config, error) {
	conf := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(strict)
	if err := dec.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	conf.FillDefault()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}
