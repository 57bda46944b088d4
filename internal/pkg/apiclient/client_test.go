//go:build unit

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysync/skysync-tui/internal/pkg/session"
)

func storeWithSession(t *testing.T) session.Store {
	t.Helper()

	store := session.NewMemoryStore()

	token, err := json.Marshal("token-123")
	require.NoError(t, err)
	require.NoError(t, store.Set(session.KeyToken, token))

	user, err := json.Marshal(map[string]string{"id": "u1", "email": "demo@skysync.dev"})
	require.NoError(t, err)
	require.NoError(t, store.Set(session.KeyUser, user))

	return store
}

func TestClient_AttachesAuthHeaders(t *testing.T) {
	var gotAuth, gotUserID, gotUserEmail string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUserID = r.Header.Get("X-User-Id")
		gotUserEmail = r.Header.Get("X-User-Email")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, time.Second, storeWithSession(t))

	resp, err := client.Get(context.Background(), "flight")
	require.NoError(t, err)
	assert.True(t, resp.OK())

	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "u1", gotUserID)
	assert.Equal(t, "demo@skysync.dev", gotUserEmail)
}

func TestClient_ExtraHeadersOverride(t *testing.T) {
	var gotTraceparent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceparent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, time.Second, session.NewMemoryStore())

	header := http.Header{}
	header.Set("traceparent", "00-11111111111111111111111111111111-2222222222222222-01")

	_, err := client.Do(context.Background(), http.MethodPost, "payment/process",
		map[string]string{"x": "y"}, header)
	require.NoError(t, err)

	// The noop tracer carries the extracted remote context through, so the
	// explicit header survives propagator injection.
	assert.Equal(t, "00-11111111111111111111111111111111-2222222222222222-01", gotTraceparent)
}

func TestClient_UnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := storeWithSession(t)
	client := New(server.URL, time.Second, store)

	hookFired := false
	client.OnSessionExpired(func() { hookFired = true })

	_, err := client.Get(context.Background(), "reservation/passenger/demo@skysync.dev")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionExpired))

	assert.True(t, hookFired)

	if _, ok := store.Get(session.KeyToken); ok {
		t.Fatal("token must be cleared after a 401")
	}

	if _, ok := store.Get(session.KeyUser); ok {
		t.Fatal("user must be cleared after a 401")
	}
}

func TestClient_ResolveURL(t *testing.T) {
	client := New("http://localhost:5000/api/", time.Second, session.NewMemoryStore())

	resolve := func(path, want string) func(t *testing.T) {
		return func(t *testing.T) {
			if got := client.resolveURL(path); got != want {
				t.Fatalf("resolveURL(%q) = %q, want %q", path, got, want)
			}
		}
	}

	t.Run("relative", resolve("flight", "http://localhost:5000/api/flight"))
	t.Run("leading_slash", resolve("/flight", "http://localhost:5000/api/flight"))
	t.Run("absolute_passthrough", resolve("https://other.example/x", "https://other.example/x"))
}

func TestMessage(t *testing.T) {
	format := func(body, fallback, want string) func(t *testing.T) {
		return func(t *testing.T) {
			if diff := cmp.Diff(want, Message([]byte(body), fallback)); diff != "" {
				t.Fatalf("Message() mismatch (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("message_only", format(
		`{"message":"seat is already reserved"}`,
		"failed", "seat is already reserved"))

	t.Run("message_with_details_and_code", format(
		`{"message":"validation failed","code":"VAL-1","errors":[{"propertyName":"email","errorMessage":"is required"}]}`,
		"failed", "validation failed; email: is required [VAL-1]"))

	t.Run("non_json_body_raw_text", format(
		"Bad Gateway", "failed", "Bad Gateway"))

	t.Run("empty_body_fallback", format(
		"", "failed to create reservation", "failed to create reservation"))

	t.Run("empty_object_fallback", format(
		`{}`, "failed", "failed"))
}
