package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fjod/krmotors/internal/domain"
)

// LoginResponse is the answer of the login endpoints. User is nil when
// the backend sent only a token.
type LoginResponse struct {
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// POST /users
func (c *Client) Register(ctx context.Context, r domain.Registration) error {
	return c.do(ctx, http.MethodPost, c.endpoint("users"), "", r, nil)
}

// POST /users/login
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("users", "login"), "", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &resp, nil
}

// POST /users/googlelogin with the Google ID token.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"token": idToken}
	if err := c.do(ctx, http.MethodPost, c.endpoint("users", "googlelogin"), "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("google login response carried no token")
	}
	return &resp, nil
}

// GET /users returns the account behind token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("users"), token, nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &u, nil
}

// POST /users/send-otp
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, c.endpoint("users", "send-otp"), "", map[string]string{"email": email}, nil)
}

// POST /users/reset-password
func (c *Client) ResetPassword(ctx context.Context, r domain.PasswordReset) error {
	return c.do(ctx, http.MethodPost, c.endpoint("users", "reset-password"), "", r, nil)
}

// POST /users/create-admin
func (c *Client) CreateAdmin(ctx context.Context, token string, r domain.Registration) error {
	return c.do(ctx, http.MethodPost, c.endpoint("users", "create-admin"), token, r, nil)
}

// GET /users/admins
func (c *Client) ListAdmins(ctx context.Context, token string) ([]domain.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("users", "admins"), token, nil, &raw); err != nil {
		return nil, err
	}
	admins, err := decodeList[domain.User](raw, "admins", "users", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode admins: %w", err)
	}
	return admins, nil
}

// DELETE /users/admins/:email
func (c *Client) DeleteAdmin(ctx context.Context, token, email string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("users", "admins", email), token, nil, nil)
}
