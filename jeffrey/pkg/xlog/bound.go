package xlog

import (
	"context"

	"go.uber.org/zap"
)

////////////////////////////////////////////////////////////////////////////////

// BoundLogger is a Logger with a fixed context, for callers that have no context at hand.
type BoundLogger struct {
	l   Logger
	ctx context.Context
}

func (b *BoundLogger) Logger() Logger {
	return b.l
}

func (b *BoundLogger) WithName(name string) *BoundLogger {
	return &BoundLogger{b.l.WithName(name), b.ctx}
}

func (b *BoundLogger) With(fields ...zap.Field) *BoundLogger {
	return &BoundLogger{b.l.With(fields...), b.ctx}
}

func (b *BoundLogger) AddCallerSkip(skip int) *BoundLogger {
	return &BoundLogger{b.l.WithCallerSkip(skip), b.ctx}
}

////////////////////////////////////////////////////////////////////////////////

func (b *BoundLogger) Debug(msg string, fields ...zap.Field) {
	b.l.WithCallerSkip(1).Debug(b.ctx, msg, fields...)
}

func (b *BoundLogger) Debugf(format string, args ...any) {
	b.l.WithCallerSkip(1).Fmt().Debugf(format, args...)
}

func (b *BoundLogger) Info(msg string, fields ...zap.Field) {
	b.l.WithCallerSkip(1).Info(b.ctx, msg, fields...)
}

func (b *BoundLogger) Infof(format string, args ...any) {
	b.l.WithCallerSkip(1).Fmt().Infof(format, args...)
}

func (b *BoundLogger) Warn(msg string, fields ...zap.Field) {
	b.l.WithCallerSkip(1).Warn(b.ctx, msg, fields...)
}

func (b *BoundLogger) Warnf(format string, args ...any) {
	b.l.WithCallerSkip(1).Fmt().Warnf(format, args...)
}

func (b *BoundLogger) Error(msg string, fields ...zap.Field) {
	b.l.WithCallerSkip(1).Error(b.ctx, msg, fields...)
}

func (b *BoundLogger) Errorf(format string, args ...any) {
	b.l.WithCallerSkip(1).Fmt().Errorf(format, args...)
}

////////////////////////////////////////////////////////////////////////////////
