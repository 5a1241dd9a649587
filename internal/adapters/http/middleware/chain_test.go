package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/mocks"
)

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	handler := middleware.Chain()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+" in")
				next.ServeHTTP(w, r)
				order = append(order, name+" out")
			})
		}
	}

	handler := middleware.Chain(tag("a"), tag("b"), tag("c"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, []string{"a in", "b in", "c in", "handler", "c out", "b out", "a out"}, order)
}

func TestChain_FullPipeline(t *testing.T) {
	t.Parallel()

	resolver := mocks.NewMockIdentityResolver(t)
	resolver.EXPECT().ResolveActor(mock.Anything, "ada@example.com").
		Return(&user.User{ID: 3, Email: "ada@example.com"}, nil)

	var buf bytes.Buffer
	logger := testLogger(&buf)

	var seen *user.User
	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.OpenTelemetry(nil),
		middleware.Logging(logger),
		middleware.Timeout(5*time.Second),
		middleware.Identity(middleware.NewTokenVerifier(&authCfg), resolver),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, middleware.RequestIDFromContext(r.Context()))
		assert.NotEmpty(t, middleware.CorrelationIDFromContext(r.Context()))
		seen = middleware.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+mint(t, defaultTokenOpts()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	if assert.NotNil(t, seen) {
		assert.Equal(t, int64(3), seen.ID)
	}

	out := buf.String()
	assert.Contains(t, out, "request started")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "actor_id=3")
}
