package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/logging"
	"github.com/jsamuelsen11/taskboard-service/mocks"
)

func TestLogging_LogsStartAndCompletion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards", http.NoBody)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "request started")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "route=/api/v1/cards")
	assert.Contains(t, out, "status=201")
	assert.Contains(t, out, "bytes=7")
	assert.Contains(t, out, "duration=")
	assert.NotContains(t, out, "actor_id")
}

func TestLogging_EnrichesLoggerWithIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.Logging(testLogger(&buf)),
	)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).InfoContext(r.Context(), "handler log")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/boards", http.NoBody)
	req.Header.Set("X-Request-ID", "req-log-test")
	req.Header.Set("X-Correlation-ID", "corr-log-test")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "handler log")
	assert.Contains(t, out, "request_id=req-log-test")
	assert.Contains(t, out, "correlation_id=corr-log-test")
}

func TestLogging_ReportsRouteTemplate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(middleware.Logging(testLogger(&buf)))
	r.Get("/api/v1/boards/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/boards/42", http.NoBody))

	assert.Contains(t, buf.String(), "route=/api/v1/boards/{id}")
}

func TestLogging_ReportsAuthenticatedActor(t *testing.T) {
	t.Parallel()

	resolver := mocks.NewMockIdentityResolver(t)
	resolver.EXPECT().ResolveActor(mock.Anything, "ada@example.com").
		Return(&user.User{ID: 7, Email: "ada@example.com"}, nil)

	var buf bytes.Buffer
	handler := middleware.Chain(
		middleware.Logging(testLogger(&buf)),
		middleware.Identity(middleware.NewTokenVerifier(&authCfg), resolver),
	)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+mint(t, defaultTokenOpts()))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "actor_id=7")
}

func TestLogging_CompletionLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "level=INFO msg=\"request completed\""},
		{http.StatusNotFound, "level=INFO msg=\"request completed\""},
		{http.StatusServiceUnavailable, "level=ERROR msg=\"request completed\""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := middleware.Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", http.NoBody))

			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLogging_RedactsHeadersAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "request headers")
	assert.NotContains(t, out, "secret-token")
}
