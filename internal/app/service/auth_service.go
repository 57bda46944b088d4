package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/exception"
	"github.com/skysync/skysync-tui/internal/pkg/session"
)

// AuthService is the single source of truth for "is the user signed in".
// It owns the stored token/user pair and the in-memory copy; nothing else
// writes them. Ready flips true only after the initial store read, and
// protected views must not render before that.
type AuthService struct {
	api   *apiclient.Client
	store session.Store

	mu    sync.RWMutex
	token string
	user  *dto.AuthUser
	ready bool
}

func NewAuthService(api *apiclient.Client, store session.Store) *AuthService {
	return &AuthService{
		api:   api,
		store: store,
	}
}

// Init performs the one initial read of the session store. Until it has
// run, Ready reports false.
func (s *AuthService) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := s.store.Get(session.KeyToken); ok {
		_ = json.Unmarshal(raw, &s.token)
	}

	if raw, ok := s.store.Get(session.KeyUser); ok {
		var user dto.AuthUser
		if err := json.Unmarshal(raw, &user); err == nil && user.ID != "" {
			s.user = &user
		}
	}

	s.ready = true
}

func (s *AuthService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ready
}

func (s *AuthService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token != "" && s.user != nil
}

// User returns the signed-in user, if any.
func (s *AuthService) User() (dto.AuthUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return dto.AuthUser{}, false
	}

	return *s.user, true
}

// Login posts the credentials and requires the reply to carry both a token
// and a user; anything less fails as an incomplete response. On success
// the session is persisted and the in-memory state updated in one step.
func (s *AuthService) Login(ctx context.Context, creds dto.Credentials) (dto.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return dto.AuthResponse{}, err
	}

	resp, err := s.api.Post(ctx, "auth/login", creds)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return dto.AuthResponse{}, err
		}

		return dto.AuthResponse{}, unexpected(err)
	}

	if !resp.OK() {
		return dto.AuthResponse{}, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "login failed"),
			StatusCode: resp.StatusCode,
		}
	}

	if len(resp.Body) == 0 {
		return dto.AuthResponse{}, ErrIncompleteAuthResponse
	}

	auth, err := dto.ParseAuthResponse(resp.Body)
	if err != nil {
		return dto.AuthResponse{}, ErrUnexpectedResponse
	}

	if auth.Token == "" || auth.User.ID == "" {
		return dto.AuthResponse{}, ErrIncompleteAuthResponse
	}

	s.establishSession(ctx, auth.Token, auth.User)

	return auth, nil
}

// Register posts the signup and accepts the two distinct success shapes:
// an immediate token+user (auto-login) or isSuccess/userId with no session
// (verification email pending). Everything else is an error.
func (s *AuthService) Register(ctx context.Context, registration dto.Registration) (dto.RegisterResponse, error) {
	if err := registration.Validate(); err != nil {
		return dto.RegisterResponse{}, err
	}

	resp, err := s.api.Post(ctx, "auth/register", registration)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return dto.RegisterResponse{}, err
		}

		return dto.RegisterResponse{}, unexpected(err)
	}

	if !resp.OK() {
		return dto.RegisterResponse{}, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "registration failed"),
			StatusCode: resp.StatusCode,
		}
	}

	result, err := dto.ParseRegisterResponse(resp.Body)
	if err != nil {
		return dto.RegisterResponse{}, ErrUnexpectedResponse
	}

	if result.IsSuccess != nil && !*result.IsSuccess {
		return dto.RegisterResponse{}, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "registration failed"),
			StatusCode: resp.StatusCode,
		}
	}

	if result.Auth != nil {
		s.establishSession(ctx, result.Auth.Token, result.Auth.User)

		return result, nil
	}

	if (result.IsSuccess != nil && *result.IsSuccess) || result.UserID != "" {
		return result, nil
	}

	return dto.RegisterResponse{}, exception.ApplicationError{
		Message:    apiclient.Message(resp.Body, "could not interpret registration response"),
		StatusCode: resp.StatusCode,
	}
}

// ForgotPassword requests a reset email and reports the server's message.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return s.messageOperation(ctx, "auth/forgot-password",
		map[string]string{"email": email},
		"could not request a password reset",
		"if the address exists, a reset email has been sent")
}

// ResetPassword redeems a reset token and reports the server's message.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return s.messageOperation(ctx, "auth/reset-password",
		map[string]string{"token": token, "newPassword": newPassword},
		"could not reset the password",
		"password updated, you can sign in now")
}

// VerifyEmail redeems an email verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	return s.messageOperation(ctx, "auth/verify-email",
		map[string]string{"token": token},
		"email verification failed",
		"email address verified")
}

// Logout clears the stored and in-memory session synchronously. There is
// no server call to make.
func (s *AuthService) Logout() {
	if err := s.store.Delete(session.KeyToken, session.KeyUser); err != nil {
		slog.Warn("failed to clear stored session on logout", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// DropSession discards only the in-memory state. The 401 interceptor has
// already removed the stored copy by the time this runs.
func (s *AuthService) DropSession() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

func (s *AuthService) establishSession(ctx context.Context, token string, user dto.AuthUser) {
	tokenJSON, _ := json.Marshal(token)
	userJSON, _ := json.Marshal(user)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(session.KeyToken, tokenJSON); err != nil {
		slog.WarnContext(ctx, "failed to persist token", slog.String("error", err.Error()))
	}

	if err := s.store.Set(session.KeyUser, userJSON); err != nil {
		slog.WarnContext(ctx, "failed to persist user", slog.String("error", err.Error()))
	}

	s.token = token
	s.user = &user
}

func (s *AuthService) messageOperation(ctx context.Context, path string, payload any, fallbackErr, fallbackOK string) (string, error) {
	resp, err := s.api.Post(ctx, path, payload)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return "", err
		}

		return "", unexpected(err)
	}

	if !resp.OK() {
		return "", exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, fallbackErr),
			StatusCode: resp.StatusCode,
		}
	}

	if message, err := dto.ParseMessage(resp.Body); err == nil && message != "" {
		return message, nil
	}

	return fallbackOK, nil
}
