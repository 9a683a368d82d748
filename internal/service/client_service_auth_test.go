package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/mock"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestToken(t *testing.T, userID int64, ttl time.Duration) models.Token {
	t.Helper()
	token, err := utils.GenerateJWTToken("go-stock-keeper", userID, ttl, "secret")
	require.NoError(t, err)
	return token
}

func newTestClientAuthService(t *testing.T) (*clientAuthService, *mock.MockAuthClient, *store.ClientCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthClient(ctrl)
	cache := store.NewClientCache(store.NewMemoryCache())
	svc := NewClientAuthService(auth, cache, logger.Nop()).(*clientAuthService)
	return svc, auth, cache
}

// ── Login / Register ──

func TestClientAuthService_Login(t *testing.T) {
	svc, auth, cache := newTestClientAuthService(t)
	ctx := context.Background()
	user := models.User{Login: "alice", Password: "pw"}
	token := newTestToken(t, 7, time.Hour)

	auth.EXPECT().Login(gomock.Any(), user).Return(token, nil)
	auth.EXPECT().SetToken(token.SignedString)

	userID, err := svc.Login(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	current, ok := svc.CurrentUserID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), current)
	assert.NotNil(t, svc.Listeners())

	session, err := cache.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, token.SignedString, session)
}

func TestClientAuthService_LoginErrors(t *testing.T) {
	tests := []struct {
		name      string
		serverErr error
		wantErr   error
	}{
		{
			name:      "wrong password",
			serverErr: fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgInvalidLoginPassword),
			wantErr:   ErrWrongPassword,
		},
		{
			name:      "server down",
			serverErr: fmt.Errorf("%w: %s", adapter.ErrTransport, "connection refused"),
			wantErr:   ErrRemoteUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, auth, _ := newTestClientAuthService(t)
			auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.Token{}, tt.serverErr)

			_, err := svc.Login(context.Background(), models.User{Login: "alice", Password: "x"})
			require.ErrorIs(t, err, ErrLoginOnServer)
			require.ErrorIs(t, err, tt.wantErr)

			_, ok := svc.CurrentUserID()
			assert.False(t, ok)
		})
	}
}

func TestClientAuthService_RegisterLoginTaken(t *testing.T) {
	svc, auth, _ := newTestClientAuthService(t)
	auth.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(models.Token{}, fmt.Errorf("%w: %s", adapter.ErrConflict, app.MsgLoginAlreadyExists))

	_, err := svc.Register(context.Background(), models.User{Login: "bob", Password: "pw"})
	require.ErrorIs(t, err, ErrRegisterOnServer)
	require.ErrorIs(t, err, store.ErrLoginAlreadyExists)
}

// ── Restore ──

func TestClientAuthService_Restore(t *testing.T) {
	svc, auth, cache := newTestClientAuthService(t)
	ctx := context.Background()

	_, err := svc.Restore(ctx)
	require.ErrorIs(t, err, ErrNotAuthenticated)

	token := newTestToken(t, 3, time.Hour)
	require.NoError(t, cache.SaveSession(ctx, token.SignedString))
	auth.EXPECT().SetToken(token.SignedString)

	userID, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), userID)
}

func TestClientAuthService_RestoreExpired(t *testing.T) {
	svc, _, cache := newTestClientAuthService(t)
	ctx := context.Background()

	token := newTestToken(t, 3, time.Hour)
	require.NoError(t, cache.SaveSession(ctx, token.SignedString))
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := svc.Restore(ctx)
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.ErrorIs(t, err, ErrTokenIsExpired)

	session, err := cache.Session(ctx)
	require.NoError(t, err)
	assert.Empty(t, session)
}

// ── Logout ──

func TestClientAuthService_LogoutClearsListeners(t *testing.T) {
	svc, auth, cache := newTestClientAuthService(t)
	ctx := context.Background()
	token := newTestToken(t, 5, time.Hour)

	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(token, nil)
	auth.EXPECT().SetToken(token.SignedString)
	_, err := svc.Login(ctx, models.User{Login: "carol", Password: "pw"})
	require.NoError(t, err)

	registry := svc.Listeners()
	stopped := 0
	registry.Register(func() { stopped++ })
	registry.Register(func() { stopped++ })

	auth.EXPECT().SetToken("")
	require.NoError(t, svc.Logout(ctx))

	assert.Equal(t, 2, stopped)
	assert.Nil(t, svc.Listeners())
	_, ok := svc.CurrentUserID()
	assert.False(t, ok)

	session, err := cache.Session(ctx)
	require.NoError(t, err)
	assert.Empty(t, session)

	// a subscription that races with logout is stopped right away
	registry.Register(func() { stopped++ })
	assert.Equal(t, 3, stopped)
}

func TestClientAuthService_NewSessionStopsPrevious(t *testing.T) {
	svc, auth, _ := newTestClientAuthService(t)
	ctx := context.Background()

	first := newTestToken(t, 1, time.Hour)
	second := newTestToken(t, 2, time.Hour)
	gomock.InOrder(
		auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(first, nil),
		auth.EXPECT().SetToken(first.SignedString),
		auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(second, nil),
		auth.EXPECT().SetToken(second.SignedString),
	)

	_, err := svc.Login(ctx, models.User{Login: "a", Password: "pw"})
	require.NoError(t, err)
	stopped := false
	svc.Listeners().Register(func() { stopped = true })

	userID, err := svc.Login(ctx, models.User{Login: "b", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), userID)
	assert.True(t, stopped)
	assert.Equal(t, 0, svc.Listeners().Len())
}
