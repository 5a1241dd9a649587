// Package logging builds the service's slog loggers and carries request
// metadata to them through context.
//
//	logger := logging.New("info", "json", os.Stderr)
//
// Request middleware stores attributes on the context with WithAttrs. Any
// *Context call on a logger from New, or one wrapped by ContextAware, adds
// them to the record, so service logs pick up request_id, correlation_id and
// actor_id without the services knowing about HTTP:
//
//	ctx = logging.WithAttrs(ctx, slog.Int64("actor_id", actor.ID))
//	s.logger.ErrorContext(ctx, "failed to move card",
//	    slog.String("operation", "MoveCard"),
//	    slog.Int64("card_id", id),
//	    slog.Any("error", err),
//	)
//
// Error logs name the operation and the entity ids involved and carry the
// full error chain via slog.Any("error", err).
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type (
	loggerKey struct{}
	attrsKey  struct{}
)

// New creates a logger at the given level ("debug", "info", "warn" or
// "error"; anything else means info) writing text when format is "text" and
// JSON otherwise. Debug output includes source locations. Sensitive values
// are redacted and context attributes are added to every *Context call.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(contextHandler{handler})
}

// ContextAware returns l with context attribute support. Loggers from New
// already have it and are returned unchanged.
func ContextAware(l *slog.Logger) *slog.Logger {
	if _, ok := l.Handler().(contextHandler); ok {
		return l
	}
	return slog.New(contextHandler{l.Handler()})
}

// WithAttrs returns a context whose *Context log calls also record attrs,
// after any attributes already on ctx.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFromContext(ctx)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func attrsFromContext(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

// WithLogger returns a new context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored on ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler adds the attributes stored by WithAttrs to each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := attrsFromContext(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
