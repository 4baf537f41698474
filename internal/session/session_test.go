package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testClient returns a Redis client for tests. Skips if Valkey is
// unavailable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port,
		DB:   15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestSessionLifecycle(t *testing.T) {
	store := NewStore(testClient(t))
	ctx := context.Background()

	token, err := store.Create(ctx, &Data{
		UserID:      uuid.New(),
		Email:       "staff@example.com",
		DisplayName: "Staff",
		Role:        "manager",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length: got %d, want 64", len(token))
	}

	data, err := store.Get(ctx, requestWithToken(token))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data == nil || data.Email != "staff@example.com" {
		t.Fatalf("unexpected session data: %+v", data)
	}
	if data.TwoFADone {
		t.Error("new session must start without 2FA")
	}
	if data.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	// Update flips the 2FA flag in place.
	data.TwoFADone = true
	if err := store.Update(ctx, requestWithToken(token), data); err != nil {
		t.Fatalf("update: %v", err)
	}
	data, err = store.Get(ctx, requestWithToken(token))
	if err != nil || data == nil || !data.TwoFADone {
		t.Fatalf("update not applied: %+v, %v", data, err)
	}

	// Destroy removes the session.
	if err := store.Destroy(ctx, requestWithToken(token)); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	data, err = store.Get(ctx, requestWithToken(token))
	if err != nil {
		t.Fatalf("get after destroy: %v", err)
	}
	if data != nil {
		t.Errorf("session should be gone, got %+v", data)
	}
}

func TestGetWithoutTokenIsNotAnError(t *testing.T) {
	store := NewStore(testClient(t))

	data, err := store.Get(context.Background(), requestWithToken(""))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil session, got %+v", data)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"Bearer  abc123 ", "abc123"},
		{"bearer abc123", ""},
		{"Basic abc123", ""},
		{"", ""},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		if got := BearerToken(r); got != tc.want {
			t.Errorf("header %q: got %q, want %q", tc.header, got, tc.want)
		}
	}
}
