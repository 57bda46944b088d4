//go:build unit

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/session"
)

func newAuth(serverURL string) (*AuthService, session.Store) {
	store := session.NewMemoryStore()
	api := apiclient.New(serverURL, 2*time.Second, store)

	svc := NewAuthService(api, store)
	svc.Init()

	return svc, store
}

func TestAuthService_Init(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		svc, _ := newAuth("http://localhost:5000")

		assert.True(t, svc.Ready())
		assert.False(t, svc.Authenticated())
	})

	t.Run("stored session restores the user", func(t *testing.T) {
		store := session.NewMemoryStore()

		token, _ := json.Marshal("tok-1")
		require.NoError(t, store.Set(session.KeyToken, token))

		user, _ := json.Marshal(dto.AuthUser{ID: "u1", Email: "demo@skysync.dev"})
		require.NoError(t, store.Set(session.KeyUser, user))

		svc := NewAuthService(apiclient.New("http://localhost:5000", time.Second, store), store)
		assert.False(t, svc.Ready())

		svc.Init()

		assert.True(t, svc.Ready())
		assert.True(t, svc.Authenticated())

		got, ok := svc.User()
		require.True(t, ok)
		assert.Equal(t, "demo@skysync.dev", got.Email)
	})
}

func TestAuthService_Login(t *testing.T) {
	_ = dto.InitValidator()

	creds := dto.Credentials{Email: "demo@skysync.dev", Password: "password"}

	t.Run("success persists the session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/login", r.URL.Path)
			fmt.Fprint(w, `{"token":"tok-1","user":{"id":"u1","email":"demo@skysync.dev","firstName":"Demo"}}`)
		}))
		defer server.Close()

		svc, store := newAuth(server.URL)

		auth, err := svc.Login(context.Background(), creds)
		require.NoError(t, err)

		assert.Equal(t, "tok-1", auth.Token)
		assert.True(t, svc.Authenticated())

		raw, ok := store.Get(session.KeyToken)
		require.True(t, ok)

		var stored string
		require.NoError(t, json.Unmarshal(raw, &stored))
		assert.Equal(t, "tok-1", stored)

		raw, ok = store.Get(session.KeyUser)
		require.True(t, ok)

		var user dto.AuthUser
		require.NoError(t, json.Unmarshal(raw, &user))
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("missing token in a 2xx reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"user":{"id":"u1"}}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		_, err := svc.Login(context.Background(), creds)
		assert.ErrorIs(t, err, ErrIncompleteAuthResponse)
		assert.False(t, svc.Authenticated())
	})

	t.Run("empty body in a 2xx reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		_, err := svc.Login(context.Background(), creds)
		assert.ErrorIs(t, err, ErrIncompleteAuthResponse)
	})

	t.Run("server error surfaces the backend message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"invalid credentials"}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		_, err := svc.Login(context.Background(), creds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}

func TestAuthService_Register(t *testing.T) {
	_ = dto.InitValidator()

	registration := dto.Registration{
		FirstName: "Demo",
		LastName:  "User",
		Email:     "new@skysync.dev",
		Password:  "password",
	}

	t.Run("auto-login shape establishes the session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"token":"tok-2","user":{"id":"u2","email":"new@skysync.dev"}}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		result, err := svc.Register(context.Background(), registration)
		require.NoError(t, err)
		require.NotNil(t, result.Auth)
		assert.True(t, svc.Authenticated())
	})

	t.Run("pending-verification shape leaves the session empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"isSuccess":true,"userId":"u3","message":"check your inbox"}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		result, err := svc.Register(context.Background(), registration)
		require.NoError(t, err)
		assert.Nil(t, result.Auth)
		assert.Equal(t, "u3", result.UserID)
		assert.False(t, svc.Authenticated())
	})

	t.Run("explicit isSuccess false is an error even on 2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"isSuccess":false,"message":"email already registered"}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		_, err := svc.Register(context.Background(), registration)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email already registered")
	})
}

func TestAuthService_MessageOperations(t *testing.T) {
	t.Run("server message wins", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/reset-password", r.URL.Path)
			fmt.Fprint(w, `{"message":"password changed"}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		msg, err := svc.ResetPassword(context.Background(), "reset-token", "newpass")
		require.NoError(t, err)
		assert.Equal(t, "password changed", msg)
	})

	t.Run("empty reply falls back to the canned message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		msg, err := svc.ForgotPassword(context.Background(), "demo@skysync.dev")
		require.NoError(t, err)
		assert.Equal(t, "if the address exists, a reset email has been sent", msg)
	})

	t.Run("verify email failure surfaces the backend message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"message":"token expired"}`)
		}))
		defer server.Close()

		svc, _ := newAuth(server.URL)

		_, err := svc.VerifyEmail(context.Background(), "stale-token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token expired")
	})
}

func TestAuthService_Logout(t *testing.T) {
	store := session.NewMemoryStore()

	token, _ := json.Marshal("tok-1")
	require.NoError(t, store.Set(session.KeyToken, token))

	user, _ := json.Marshal(dto.AuthUser{ID: "u1"})
	require.NoError(t, store.Set(session.KeyUser, user))

	svc := NewAuthService(apiclient.New("http://localhost:5000", time.Second, store), store)
	svc.Init()
	require.True(t, svc.Authenticated())

	svc.Logout()

	assert.False(t, svc.Authenticated())

	_, ok := store.Get(session.KeyToken)
	assert.False(t, ok)
	_, ok = store.Get(session.KeyUser)
	assert.False(t, ok)
}
