package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/session"
)

// AccountBackend is the part of the backend the auth routes use.
type AccountBackend interface {
	Register(ctx context.Context, r domain.Registration) error
	Login(ctx context.Context, creds domain.Credentials) (*backend.LoginResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*backend.LoginResponse, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	SendOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, r domain.PasswordReset) error
}

type AuthHandler struct {
	accounts AccountBackend
	timeout  time.Duration
}

func NewAuthHandler(accounts AccountBackend, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		timeout:  timeout,
	}
}

type GoogleLoginRequestDTO struct {
	Token string `json:"token"`
}

type SendOTPRequestDTO struct {
	Email string `json:"email"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.Registration
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}
	if err := h.accounts.Register(ctx, req); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, MessageResponseDTO{Message: "account created"})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.Credentials
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	resp, err := h.accounts.Login(ctx, req)
	if err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, resp)
}

// POST /api/v1/auth/google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req GoogleLoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		handleError(w, &domain.ValidationError{Field: "token", Message: "google credential is required"})
		return
	}

	resp, err := h.accounts.GoogleLogin(ctx, req.Token)
	if err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, resp)
}

func (h *AuthHandler) respondSession(w http.ResponseWriter, resp *backend.LoginResponse) {
	s, err := session.FromResponse(resp)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// POST /api/v1/auth/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SendOTPRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		handleError(w, &domain.ValidationError{Field: "email", Message: "email is required"})
		return
	}
	if err := h.accounts.SendOTP(ctx, req.Email); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponseDTO{Message: "one-time code sent"})
}

// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.PasswordReset
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}
	if err := h.accounts.ResetPassword(ctx, req); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponseDTO{Message: "password updated"})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s := session.FromContext(r.Context())
	user, err := h.accounts.CurrentUser(ctx, s.Token)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
