package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/platform/logging"
)

// Logging returns middleware that logs request start and completion. It puts
// the request and correlation ids on the context with logging.WithAttrs, so
// every *Context log call made while serving the request carries them.
//
// The completion entry names the matched route and, for authenticated
// requests, the acting user id.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, info := withRequestInfo(r.Context())

			ctx = logging.WithAttrs(ctx,
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			child := logging.ContextAware(logger)
			ctx = logging.WithLogger(ctx, child)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if child.Enabled(ctx, slog.LevelDebug) {
				child.LogAttrs(ctx, slog.LevelDebug, "request headers", RedactHeaders(r.Header)...)
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			}
			if id := info.actor(); id != 0 {
				attrs = append(attrs, slog.Int64("actor_id", id))
			}
			child.LogAttrs(ctx, completionLevel(rw.statusCode), "request completed", attrs...)
		})
	}
}

// completionLevel raises server errors to Error so they surface without
// enabling debug output. Client errors stay at Info.
func completionLevel(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelInfo
}
