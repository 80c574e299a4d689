// Package logging builds the process logger and carries request-scoped
// loggers through context.
//
//	logger := logging.New("info", "json", os.Stderr)
//	ctx = logging.WithLogger(ctx, logger)
//
// Failures are logged with the operation, the stream and the full error chain:
//
//	logging.FromContext(ctx).ErrorContext(ctx, "aggregate command failed",
//	    logging.Operation("ReleaseService.SetStatus"),
//	    logging.Stream(stream),
//	    logging.Err(err),
//	)
//
// Loggers taken from a request context already carry request_id and
// correlation_id.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Attribute keys shared by every component.
const (
	KeyOperation = "operation"
	KeyStream    = "stream"
	KeyError     = "error"
)

type contextKey struct{}

// New returns a JSON logger, or a text logger when format is "text". Unknown
// levels fall back to info. Debug output includes the source location.
// Attributes named like credentials are redacted.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithAttrs stores a child of the context logger enriched with attrs.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Operation names the failing call, e.g. "DeclarationService.Declare".
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Stream names the event stream a log line concerns.
func Stream(stream string) slog.Attr {
	return slog.String(KeyStream, stream)
}

// Err attaches the full error chain.
func Err(err error) slog.Attr {
	return slog.Any(KeyError, err)
}
