package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/domain"
)

// claims is the payload the backend puts in its tokens. Only used when a
// login response carries no user record; the signature is the backend's
// business and is not checked here.
type claims struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func parseClaims(token string) (*claims, error) {
	c := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return c, nil
}

// FromLogin builds the session for a token. A user record from the login
// response wins; otherwise the user is read from the token claims.
func FromLogin(token string, user *domain.User) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	if user != nil {
		return &domain.Session{Token: token, User: *user}, nil
	}

	c, err := parseClaims(token)
	if err != nil {
		return nil, err
	}
	id := c.ID
	if id == "" {
		id = c.Subject
	}
	return &domain.Session{
		Token: token,
		User: domain.User{
			ID:    id,
			Name:  c.Name,
			Email: c.Email,
			Role:  c.Role,
		},
	}, nil
}

// FromResponse builds the session for a login response. An opaque token
// without a user record still makes a session with an empty user.
func FromResponse(resp *backend.LoginResponse) (*domain.Session, error) {
	s, err := FromLogin(resp.Token, resp.User)
	if errors.Is(err, ErrInvalidToken) && strings.TrimSpace(resp.Token) != "" {
		return &domain.Session{Token: strings.TrimSpace(resp.Token)}, nil
	}
	return s, err
}

// FromBearer builds a session from an Authorization header value.
func FromBearer(header string, now time.Time) (*domain.Session, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return nil, ErrNoSession
	}
	token = strings.TrimSpace(token)
	if expired(token, now) {
		return nil, ErrNoSession
	}
	s, err := FromLogin(token, nil)
	if err != nil {
		// opaque token: the backend still decides whether it is valid
		return &domain.Session{Token: token}, nil
	}
	return s, nil
}

// expired reports whether the token carries an exp claim in the past.
// Opaque tokens never expire on this side.
func expired(token string, now time.Time) bool {
	c, err := parseClaims(token)
	if err != nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}
