package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/atlas-admin/atlas-admin/internal/shared"
	_ "github.com/atlas-admin/atlas-admin/internal/testing/guard"
)

type stubLimiter struct {
	decision Decision
	err      error
	lastKey  string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	s.lastKey = key
	return s.decision, s.err
}

func passThrough() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddlewareAllowsAndSetsHeaders(t *testing.T) {
	reset := time.Now().Add(time.Minute)
	lim := &stubLimiter{decision: Decision{Allowed: true, Limit: 10, Remaining: 4, Reset: reset}}
	handler := Middleware(lim, KeyByIP, nil)(passThrough())

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Equal(t, "10", res.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", res.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, res.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "10.1.2.3", lim.lastKey)
}

func TestMiddlewareDenies(t *testing.T) {
	reset := time.Now().Add(30 * time.Second)
	lim := &stubLimiter{decision: Decision{Allowed: false, Limit: 10, Remaining: 0, Reset: reset}}
	handler := Middleware(lim, KeyByIP, nil)(passThrough())

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.NotEmpty(t, res.Header().Get("Retry-After"))
	assert.Equal(t, "0", res.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddlewareRetryAfterAtLeastOneSecond(t *testing.T) {
	lim := &stubLimiter{decision: Decision{Allowed: false, Limit: 1, Reset: time.Now()}}
	handler := Middleware(lim, KeyByIP, nil)(passThrough())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, "1", res.Header().Get("Retry-After"))
}

func TestMiddlewareFailsOpenOnBackendError(t *testing.T) {
	lim := &stubLimiter{decision: Decision{Allowed: true}, err: errors.New("redis down")}
	handler := Middleware(lim, KeyByIP, nil)(passThrough())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Empty(t, res.Header().Get("X-RateLimit-Limit"))
}

func TestKeyBySubject(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", KeyBySubject(req))

	req = req.WithContext(shared.ContextWithIdentity(req.Context(), &shared.Identity{ID: 42}))
	assert.Equal(t, "u:42", KeyBySubject(req))
}

func TestKeyByEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/users/7", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), &shared.Identity{ID: 42}))
	assert.Equal(t, "u:42:DELETE:/users/7", KeyByEndpoint(req))
}
