// Package middleware provides the HTTP middleware for the task board API.
//
// Every request passes through, outermost first:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout
//
// Routes under /api/v1 additionally run Identity, which turns a bearer token
// into the acting user. Health probes skip it. Identity reports the actor back
// to the outer middleware so spans, request logs and panic logs name the user.
//
// Each middleware is a func(http.Handler) http.Handler; Chain composes them.
package middleware
