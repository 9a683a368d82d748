package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
)

type clientAuthService struct {
	auth  adapter.AuthClient
	cache *store.ClientCache
	now   func() time.Time

	mu        sync.RWMutex
	userID    int64
	listeners *ListenerRegistry

	logger *logger.Logger
}

func NewClientAuthService(auth adapter.AuthClient, cache *store.ClientCache, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		auth:   auth,
		cache:  cache,
		now:    time.Now,
		logger: logger,
	}
}

func (a *clientAuthService) Register(ctx context.Context, user models.User) (int64, error) {
	token, err := a.auth.Register(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRegisterOnServer, mapAdapterError(err))
	}
	return a.open(ctx, token)
}

func (a *clientAuthService) Login(ctx context.Context, user models.User) (int64, error) {
	token, err := a.auth.Login(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoginOnServer, mapAdapterError(err))
	}
	return a.open(ctx, token)
}

func (a *clientAuthService) Restore(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	signed, err := a.cache.Session(ctx)
	if err != nil {
		return 0, localErr("read session", err)
	}
	if signed == "" {
		return 0, ErrNotAuthenticated
	}

	if utils.TokenExpired(signed, a.now()) {
		log.Info().Str("func", "clientAuthService.Restore").Msg("persisted token expired")
		if err = a.cache.ClearSession(ctx); err != nil {
			return 0, localErr("clear session", err)
		}
		return 0, fmt.Errorf("%w: %w", ErrNotAuthenticated, ErrTokenIsExpired)
	}

	userID, err := utils.ParseUserIDFromJWT(signed)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}

	a.auth.SetToken(signed)
	a.start(userID)

	log.Info().Str("func", "clientAuthService.Restore").Int64("user_id", userID).Msg("session restored")
	return userID, nil
}

// Logout stops the session's subscriptions, then forgets the token.
func (a *clientAuthService) Logout(ctx context.Context) error {
	a.mu.Lock()
	listeners := a.listeners
	userID := a.userID
	a.listeners = nil
	a.userID = 0
	a.mu.Unlock()

	if listeners != nil {
		listeners.Clear()
	}

	a.auth.SetToken("")
	if err := a.cache.ClearSession(ctx); err != nil && !errors.Is(err, store.ErrCacheKeyNotFound) {
		return localErr("clear session", err)
	}

	logger.FromContext(ctx).Info().Str("func", "clientAuthService.Logout").Int64("user_id", userID).Msg("logged out")
	return nil
}

func (a *clientAuthService) CurrentUserID() (int64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userID, a.userID > 0
}

func (a *clientAuthService) Listeners() *ListenerRegistry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.listeners
}

// open persists the token and starts a session for its subject.
func (a *clientAuthService) open(ctx context.Context, token models.Token) (int64, error) {
	userID := token.UserID
	if userID <= 0 {
		var err error
		if userID, err = utils.ParseUserIDFromJWT(token.SignedString); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)
		}
	}

	if err := a.cache.SaveSession(ctx, token.SignedString); err != nil {
		return 0, localErr("save session", err)
	}
	a.auth.SetToken(token.SignedString)
	a.start(userID)

	logger.FromContext(ctx).Info().Str("func", "clientAuthService.open").Int64("user_id", userID).Msg("session opened")
	return userID, nil
}

// start replaces the current session; listeners of a previous one are
// stopped.
func (a *clientAuthService) start(userID int64) {
	a.mu.Lock()
	previous := a.listeners
	a.userID = userID
	a.listeners = NewListenerRegistry()
	a.mu.Unlock()

	if previous != nil {
		previous.Clear()
	}
}
