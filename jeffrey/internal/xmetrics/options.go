package xmetrics

import "github.com/prometheus/client_golang/prometheus"

type config struct {
	namespace  string
	collectors []prometheus.Collector
}

type Option func(*config)

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(c *config) {
		c.namespace = namespace
	}
}

func WithAddCollectors(collectors ...prometheus.Collector) Option {
	return func(c *config) {
		c.collectors = append(c.collectors, collectors...)
	}
}

func collectOptions(options ...Option) *config {
	conf := &config{}
	for _, opt := range options {
		opt(conf)
	}
	return conf
}
