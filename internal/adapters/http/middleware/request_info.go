package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// requestInfo is shared between the outer observability middleware and the
// inner API middleware. Identity runs inside the /api/v1 group, so the actor
// it resolves is only visible to Recovery, OpenTelemetry and Logging through
// this holder. The mutex covers handlers that outlive Timeout.
type requestInfo struct {
	mu      sync.Mutex
	actorID int64
}

type requestInfoKey struct{}

// withRequestInfo returns the holder already attached to ctx, or attaches a
// new one.
func withRequestInfo(ctx context.Context) (context.Context, *requestInfo) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		return ctx, info
	}
	info := &requestInfo{}
	return context.WithValue(ctx, requestInfoKey{}, info), info
}

// noteActor records the authenticated user on the request's holder, if any.
func noteActor(ctx context.Context, id int64) {
	info, ok := ctx.Value(requestInfoKey{}).(*requestInfo)
	if !ok {
		return
	}
	info.mu.Lock()
	info.actorID = id
	info.mu.Unlock()
}

// actor returns the recorded actor id, or 0 for anonymous requests.
func (i *requestInfo) actor() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.actorID
}

// routePattern returns the chi route template that served r, such as
// /api/v1/boards/{id}. Entity ids stay out of span names and metric labels.
// Requests that never reached a chi router report their raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
