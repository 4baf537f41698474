package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"cheko/internal/handlers"
	"cheko/internal/middleware"
	"cheko/internal/session"
)

// testRouter builds a router with a session store pointing at an
// unreachable Valkey. Session lookups fail open to unauthenticated, so
// routing and guard behavior can be tested without live dependencies.
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { client.Close() })
	sessions := session.NewStore(client)

	orderLimiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(orderLimiter.Stop)
	loginLimiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(loginLimiter.Stop)

	return New(
		sessions,
		handlers.NewMenu(nil, nil, nil),
		handlers.NewMap(nil, nil),
		handlers.NewAuth(sessions, nil),
		orderLimiter, loginLimiter,
	)
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("body: %q", got)
	}
}

func TestStaffRoutesRejectAnonymous(t *testing.T) {
	r := testRouter(t)

	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/menu/items"},
		{http.MethodPut, "/api/menu/items/0b51a3ad-9d5e-4a2f-9c76-111111111111"},
		{http.MethodDelete, "/api/menu/categories/0b51a3ad-9d5e-4a2f-9c76-111111111111"},
		{http.MethodPost, "/api/menu/best-sellers/recalculate"},
		{http.MethodPost, "/api/map/branches"},
		{http.MethodDelete, "/api/map/branches/0b51a3ad-9d5e-4a2f-9c76-111111111111"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestPreflightIsHandledGlobally(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/menu/items", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header on preflight")
	}
}
