// Package observability provides structured logging with OpenTelemetry
// trace correlation for the negotiation pipeline.
package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// TracedLogger is a structured logger with automatic trace correlation.
// It wraps slog.Logger and stamps every entry with the session and
// component it belongs to, plus trace_id/span_id when a span is active.
type TracedLogger struct {
	logger          *slog.Logger
	sessionID       string
	component       string
	redactSensitive bool
}

// NewTracedLogger creates a TracedLogger for one session and component.
// Component names the pipeline role producing the logs (orchestrator,
// critic, strategist, executor, history).
func NewTracedLogger(handler slog.Handler, sessionID, component string) *TracedLogger {
	return &TracedLogger{
		logger:          slog.New(handler),
		sessionID:       sessionID,
		component:       component,
		redactSensitive: true,
	}
}

// Debug logs a debug-level message. Debug entries keep all fields
// unredacted so transcripts can be inspected during development.
func (l *TracedLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Debug(msg, args...)
}

// Info logs an info-level message with sensitive fields redacted.
func (l *TracedLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Info(msg, args...)
}

// Warn logs a warning-level message with sensitive fields redacted.
func (l *TracedLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Warn(msg, args...)
}

// Error logs an error-level message with sensitive fields redacted.
func (l *TracedLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Error(msg, args...)
}

// WithContext returns a slog.Logger carrying session_id, component, and
// the trace correlation fields extracted from the active span.
func (l *TracedLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.logger.With(
		slog.String("session_id", l.sessionID),
		slog.String("component", l.component),
	)

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		logger = logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return logger
}

// NewJSONHandler creates a JSON log handler for production use.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// NewTextHandler creates a human-readable text handler for development.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// ParseLevel maps a config-file level string to a slog.Level. Unknown
// values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactSensitiveData replaces values for sensitive keys with
// "[REDACTED]". Keys are compared case-insensitively with underscores
// stripped, so api_key and APIKey both match.
func redactSensitiveData(args []any) []any {
	if len(args)%2 != 0 {
		return args
	}

	sensitiveFields := map[string]bool{
		"apikey":     true,
		"secret":     true,
		"secretkey":  true,
		"password":   true,
		"token":      true,
		"credential": true,
		"prompt":     true,
		"prompts":    true,
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 0; i < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			normalizedKey := strings.ToLower(strings.ReplaceAll(key, "_", ""))
			if sensitiveFields[normalizedKey] {
				redacted[i+1] = "[REDACTED]"
			}
		}
	}

	return redacted
}
