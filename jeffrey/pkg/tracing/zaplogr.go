package tracing

import (
	"fmt"

	"github.com/go-logr/logr"
	"go.uber.org/zap"

	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

// logrZapSink routes otel diagnostics to the logger. Only logr verbosity 0
// is passed through, otel is chatty above it.
type logrZapSink struct {
	logger    *xlog.BoundLogger
	verbosity int
}

var _ logr.LogSink = (*logrZapSink)(nil)

func newLogrZapSink(logger *xlog.BoundLogger) *logrZapSink {
	return &logrZapSink{logger: logger}
}

// keyValues converts logr key/value pairs, a dangling key is kept as "ignored".
func keyValues(kv []any) []zap.Field {
	fields := make([]zap.Field, 0, (len(kv)+1)/2)
	for len(kv) >= 2 {
		key, ok := kv[0].(string)
		if !ok {
			key = fmt.Sprint(kv[0])
		}
		fields = append(fields, zap.Any(key, kv[1]))
		kv = kv[2:]
	}
	if len(kv) == 1 {
		fields = append(fields, zap.Any("ignored", kv[0]))
	}
	return fields
}

func (s *logrZapSink) with(logger *xlog.BoundLogger) *logrZapSink {
	return &logrZapSink{logger: logger, verbosity: s.verbosity}
}

// Init implements logr.LogSink.
func (s *logrZapSink) Init(info logr.RuntimeInfo) {
	s.logger = s.logger.AddCallerSkip(info.CallDepth)
}

// Enabled implements logr.LogSink.
func (s *logrZapSink) Enabled(level int) bool {
	return level <= s.verbosity
}

// Info implements logr.LogSink.
func (s *logrZapSink) Info(level int, msg string, kv ...any) {
	if s.Enabled(level) {
		s.logger.Info(msg, keyValues(kv)...)
	}
}

// Error implements logr.LogSink.
func (s *logrZapSink) Error(err error, msg string, kv ...any) {
	s.logger.Error(msg, append(keyValues(kv), zap.Error(err))...)
}

// WithName implements logr.LogSink.
func (s *logrZapSink) WithName(name string) logr.LogSink {
	return s.with(s.logger.WithName(name))
}

// WithValues implements logr.LogSink.
func (s *logrZapSink) WithValues(kv ...any) logr.LogSink {
	return s.with(s.logger.With(keyValues(kv)...))
}
