package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/applytrack/applytrack/internal/domain/auth"
	"github.com/applytrack/applytrack/internal/mocks"
	authmocks "github.com/applytrack/applytrack/internal/mocks/auth"
	"github.com/applytrack/applytrack/internal/ports"
)

func newAuthService(provider ports.AuthProvider, sessions ports.SessionStore, ttl time.Duration) *AuthService {
	return NewAuthService(AuthServiceOptions{Provider: provider, Sessions: sessions, SessionTTL: ttl})
}

func TestAuthService_BeginLogin(t *testing.T) {
	svc := newAuthService(authmocks.NewMockAuthProvider(), authmocks.NewMemorySessionStore(), 0)

	res, err := svc.BeginLogin(context.Background(), "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", res.AuthURL)
	assert.Equal(t, "state-1", res.State)
	assert.Equal(t, "nonce-1", res.Nonce)

	_, err = svc.BeginLogin(context.Background(), "")
	require.ErrorContains(t, err, "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	provider := &authmocks.MockAuthProvider{
		BeginFunc: func(context.Context, ports.BeginInput) (string, string, string, error) {
			return "", "", "", errors.New("provider error")
		},
	}
	svc := newAuthService(provider, authmocks.NewMemorySessionStore(), 0)

	_, err := svc.BeginLogin(context.Background(), "/")
	require.ErrorContains(t, err, "begin auth flow")
}

func TestAuthService_CompleteLogin(t *testing.T) {
	sessions := authmocks.NewMemorySessionStore()
	svc := newAuthService(authmocks.NewMockAuthProvider(), sessions, 24*time.Hour)

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "mock-user-1", sess.UserID)
	assert.Equal(t, "Mock User", sess.DisplayName())
	assert.Equal(t, 1, sessions.Len())

	stored, err := sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, stored.UserID)
}

func TestAuthService_CompleteLogin_Validation(t *testing.T) {
	svc := newAuthService(authmocks.NewMockAuthProvider(), authmocks.NewMemorySessionStore(), 0)
	tests := []struct {
		in   CompleteLoginInput
		want string
	}{
		{CompleteLoginInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{CompleteLoginInput{Code: "c", Nonce: "n"}, "state parameter is required"},
		{CompleteLoginInput{Code: "c", State: "s"}, "nonce parameter is required"},
	}
	for _, tt := range tests {
		_, err := svc.CompleteLogin(context.Background(), tt.in)
		require.ErrorContains(t, err, tt.want)
	}
}

func TestAuthService_CompleteLogin_NoUserID(t *testing.T) {
	provider := &authmocks.MockAuthProvider{
		ExchangeFunc: func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{Email: "x@example.com"}, nil
		},
	}
	svc := newAuthService(provider, authmocks.NewMemorySessionStore(), 0)
	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.ErrorContains(t, err, "no user id")
}

func TestAuthService_CompleteLogin_SaveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionStore(ctrl)
	sessions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := newAuthService(authmocks.NewMockAuthProvider(), sessions, 0)
	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.ErrorContains(t, err, "save session")
}

func TestAuthService_Expiry(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuthService(nil, nil, 2*time.Hour)
	svc.now = func() time.Time { return now }

	assert.Equal(t, now.Add(2*time.Hour), svc.expiry(time.Time{}), "zero IdP expiry uses the TTL")
	assert.Equal(t, now.Add(time.Hour), svc.expiry(now.Add(time.Hour)), "earlier IdP expiry wins")
	assert.Equal(t, now.Add(2*time.Hour), svc.expiry(now.Add(48*time.Hour)), "TTL caps long IdP expiry")

	svc.ttl = 0
	assert.Equal(t, now.Add(time.Hour), svc.expiry(time.Time{}))
	assert.Equal(t, now.Add(5*time.Hour), svc.expiry(now.Add(5*time.Hour)))
}

func TestAuthService_GetSession(t *testing.T) {
	sessions := authmocks.NewMemorySessionStore()
	svc := newAuthService(authmocks.NewMockAuthProvider(), sessions, 0)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "live", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "old", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}))

	got, err := svc.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "u", got.UserID)

	_, err = svc.GetSession(ctx, "old")
	require.ErrorIs(t, err, ErrSessionExpired)
	_, err = sessions.Get(ctx, "old")
	require.ErrorIs(t, err, authmocks.ErrNotFound, "expired sessions are deleted")

	_, err = svc.GetSession(ctx, "")
	require.Error(t, err)
	_, err = svc.GetSession(ctx, "missing")
	require.ErrorContains(t, err, "get session")
}

func TestAuthService_Logout(t *testing.T) {
	sessions := authmocks.NewMemorySessionStore()
	svc := newAuthService(authmocks.NewMockAuthProvider(), sessions, 0)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "s", UserID: "u"}))
	require.NoError(t, svc.Logout(ctx, "s"))
	assert.Zero(t, sessions.Len())
	require.NoError(t, svc.Logout(ctx, ""))
}
