package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/cartstore"
	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/logger"
)

type fakeAuth struct {
	resp  *backend.LoginResponse
	err   error
	calls int
}

func (f *fakeAuth) Login(context.Context, domain.Credentials) (*backend.LoginResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeAuth) GoogleLogin(context.Context, string) (*backend.LoginResponse, error) {
	f.calls++
	return f.resp, f.err
}

func signedToken(t *testing.T, c jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestLogin_UsesUserRecord(t *testing.T) {
	auth := &fakeAuth{resp: &backend.LoginResponse{
		Token: "opaque",
		User:  &domain.User{Name: "Nimal", Email: "nimal@kr.lk", Role: "customer"},
	}}
	store := cartstore.NewMemoryStore()
	m := NewManager(store, auth, logger.Discard())
	ctx := context.Background()

	s, err := m.Login(ctx, domain.Credentials{Email: "nimal@kr.lk", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Nimal", s.User.Name)

	restored, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, restored)
}

func TestLogin_FallsBackToClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"id":    "u-1",
		"email": "admin@kr.lk",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	auth := &fakeAuth{resp: &backend.LoginResponse{Token: token}}
	m := NewManager(cartstore.NewMemoryStore(), auth, logger.Discard())

	s, err := m.Login(context.Background(), domain.Credentials{Email: "admin@kr.lk", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "u-1", s.User.ID)
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "admin", s.User.DisplayName())
}

func TestLogin_ValidationBeforeNetwork(t *testing.T) {
	auth := &fakeAuth{}
	m := NewManager(cartstore.NewMemoryStore(), auth, logger.Discard())

	_, err := m.Login(context.Background(), domain.Credentials{Email: " "})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, auth.calls)
}

func TestLogin_BackendError(t *testing.T) {
	auth := &fakeAuth{err: &backend.APIError{StatusCode: 401, Message: "Invalid credentials"}}
	store := cartstore.NewMemoryStore()
	m := NewManager(store, auth, logger.Discard())
	ctx := context.Background()

	_, err := m.Login(ctx, domain.Credentials{Email: "a@kr.lk", Password: "bad"})
	assert.Error(t, err)

	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGoogleLogin(t *testing.T) {
	auth := &fakeAuth{resp: &backend.LoginResponse{Token: "t", User: &domain.User{Email: "g@kr.lk"}}}
	m := NewManager(cartstore.NewMemoryStore(), auth, logger.Discard())

	_, err := m.GoogleLogin(context.Background(), "")
	assert.Error(t, err)
	assert.Zero(t, auth.calls)

	s, err := m.GoogleLogin(context.Background(), "google-credential")
	require.NoError(t, err)
	assert.Equal(t, "g@kr.lk", s.User.Email)
}

func TestCurrent_ExpiredTokenIsNoSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "a@kr.lk", "exp": time.Now().Add(-time.Minute).Unix()})
	store := cartstore.NewMemoryStore()
	m := NewManager(store, &fakeAuth{}, logger.Discard())
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, &domain.Session{Token: token}))

	_, err := m.Current(ctx)

	assert.ErrorIs(t, err, ErrNoSession)
	_, err = store.Load(ctx, cartstore.TokenKey)
	assert.ErrorIs(t, err, cartstore.ErrNotFound)
}

func TestCurrent_CorruptIsNoSession(t *testing.T) {
	store := cartstore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, cartstore.TokenKey, []byte("garbage")))

	_, err := NewManager(store, &fakeAuth{}, logger.Discard()).Current(ctx)

	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogoutAndRequireAdmin(t *testing.T) {
	store := cartstore.NewMemoryStore()
	m := NewManager(store, &fakeAuth{}, logger.Discard())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, &domain.Session{Token: "t", User: domain.User{Role: "customer"}}))
	_, err := m.RequireAdmin(ctx)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, m.Save(ctx, &domain.Session{Token: "t", User: domain.User{Role: "admin"}}))
	_, err = m.RequireAdmin(ctx)
	assert.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	_, err = m.RequireAdmin(ctx)
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestFromBearer(t *testing.T) {
	now := time.Now()
	valid := signedToken(t, jwt.MapClaims{"name": "Ops", "role": "admin", "exp": now.Add(time.Hour).Unix()})
	stale := signedToken(t, jwt.MapClaims{"role": "admin", "exp": now.Add(-time.Hour).Unix()})

	s, err := FromBearer("Bearer "+valid, now)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "Ops", s.User.Name)

	s, err = FromBearer("bearer opaque-token", now)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", s.Token)
	assert.False(t, s.IsAdmin())

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer " + stale} {
		_, err := FromBearer(h, now)
		assert.ErrorIs(t, err, ErrNoSession, h)
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	s := &domain.Session{Token: "t"}
	assert.Same(t, s, FromContext(WithSession(ctx, s)))
}

func TestFromResponse(t *testing.T) {
	s, err := FromResponse(&backend.LoginResponse{Token: " opaque "})
	require.NoError(t, err)
	assert.Equal(t, "opaque", s.Token)
	assert.Empty(t, s.User.Email)

	_, err = FromResponse(&backend.LoginResponse{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
