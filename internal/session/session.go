// Package session holds the visitor's authenticated identity. A session
// is created by one login call, persisted under its own storage key and
// handed to the components that need it; nothing reads the token from
// storage on its own.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/cartstore"
	"github.com/fjod/krmotors/internal/domain"
)

var (
	ErrNoSession    = errors.New("login required")
	ErrForbidden    = errors.New("admin access required")
	ErrInvalidToken = errors.New("invalid session token")
)

// Authenticator is the part of the backend client the session needs.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (*backend.LoginResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*backend.LoginResponse, error)
}

// Manager creates, persists and restores the session.
type Manager struct {
	store cartstore.Store
	auth  Authenticator
	log   *slog.Logger
	now   func() time.Time
}

func NewManager(store cartstore.Store, auth Authenticator, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		auth:  auth,
		log:   log,
		now:   time.Now,
	}
}

// Login authenticates with e-mail and password and persists the session.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp)
}

// GoogleLogin exchanges a Google ID token for a session.
func (m *Manager) GoogleLogin(ctx context.Context, idToken string) (*domain.Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, &domain.ValidationError{Field: "token", Message: "google credential is required"}
	}
	resp, err := m.auth.GoogleLogin(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp)
}

func (m *Manager) establish(ctx context.Context, resp *backend.LoginResponse) (*domain.Session, error) {
	s, err := FromResponse(resp)
	if err != nil {
		return nil, err
	}
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	m.log.InfoContext(ctx, "session started", "email", s.User.Email, "role", s.User.Role)
	return s, nil
}

// Save persists s under the token key.
func (m *Manager) Save(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Save(ctx, cartstore.TokenKey, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Current restores the persisted session. It returns ErrNoSession when
// there is none, or when the stored token has expired.
func (m *Manager) Current(ctx context.Context) (*domain.Session, error) {
	data, err := m.store.Load(ctx, cartstore.TokenKey)
	if errors.Is(err, cartstore.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		m.log.DebugContext(ctx, "discarding corrupt session")
		_ = m.store.Delete(ctx, cartstore.TokenKey)
		return nil, ErrNoSession
	}
	if expired(s.Token, m.now()) {
		_ = m.store.Delete(ctx, cartstore.TokenKey)
		return nil, ErrNoSession
	}
	return &s, nil
}

// Logout forgets the session.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, cartstore.TokenKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// RequireAdmin returns the current session if it belongs to an admin.
func (m *Manager) RequireAdmin(ctx context.Context) (*domain.Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !s.IsAdmin() {
		return nil, ErrForbidden
	}
	return s, nil
}
