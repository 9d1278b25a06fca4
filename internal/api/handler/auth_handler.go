package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cv-insight/internal/auth"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	auth   *auth.Service
	logger zerolog.Logger
}

// NewAuthHandler wires the account handler.
func NewAuthHandler(authService *auth.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse carries a fresh access token and its account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register creates a new account.
func (h *AuthHandler) Register(ctx context.Context, email, password string) (*UserResponse, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := h.auth.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &UserResponse{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	token, user, err := h.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}

// normalizeEmail lower-cases and minimally validates an email address. Real
// validation happens when mail actually bounces; this only rejects garbage.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return "", fmt.Errorf("%w: a valid email is required", ErrMissingFields)
	}
	return email, nil
}
