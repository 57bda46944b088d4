package dto

import (
	"net/http"

	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// FullName is the display name, falling back to the email address.
func (u AuthUser) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}

	if name == "" {
		return u.Email
	}

	return name
}

// AuthResponse is a session-establishing auth reply: both fields must be
// present before the client signs the user in.
type AuthResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expiresAt,omitempty"`
	User      AuthUser `json:"user"`
}

// RegisterResponse covers both shapes the backend returns on signup:
// token+user (immediate session) or isSuccess/userId (verification email
// sent, no session yet).
type RegisterResponse struct {
	Auth      *AuthResponse `json:"-"`
	IsSuccess *bool         `json:"isSuccess,omitempty"`
	UserID    string        `json:"userId,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c Credentials) Validate() error {
	if err := ValidateSingleError(c); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// Registration is the signup payload.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (r Registration) Validate() error {
	if err := ValidateSingleError(r); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}
