package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/dto"
)

// errInternalServer is what clients see after a panic. The panic value and
// stack only go to the log.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that turns a panic in a downstream handler into
// an RFC 9457 500 response and an error log carrying the stack, the route and
// the acting user. If the handler already wrote headers, only the log entry
// is emitted.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, info := withRequestInfo(r.Context())
			r = r.WithContext(ctx)
			rw := newResponseWriter(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.ErrorContext(ctx, "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("route", routePattern(r)),
					slog.Int64("actor_id", info.actor()),
				)
				if !rw.headerWritten {
					dto.WriteErrorResponse(rw, r, errInternalServer)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
