package log

import (
	"context"
	"log/slog"
)

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger adapts a *slog.Logger to Logger.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{logger: l}
}

// GetLogger returns a Logger backed by the current slog default.
func GetLogger() Logger {
	return NewSlogLogger(slog.Default())
}

// GetLoggerWithName returns GetLogger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

func (s *slogLogger) Debug(msg string, fields ...any) {
	s.logger.Debug(msg, errFirst(fields)...)
}

func (s *slogLogger) Info(msg string, fields ...any) {
	s.logger.Info(msg, errFirst(fields)...)
}

func (s *slogLogger) Warn(msg string, fields ...any) {
	s.logger.Warn(msg, errFirst(fields)...)
}

func (s *slogLogger) Error(msg string, fields ...any) {
	s.logger.Error(msg, errFirst(fields)...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{logger: s.logger.With(errFirst(fields)...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger.Enabled(ctx, slog.Level(level))
}

// errFirst turns a leading bare error into ErrAttr so the stack trace handler
// can see it.
func errFirst(fields []any) []any {
	if len(fields) == 0 {
		return fields
	}
	if err, ok := fields[0].(error); ok {
		out := make([]any, 0, len(fields))
		out = append(out, ErrAttr(err))
		return append(out, fields[1:]...)
	}
	return fields
}
