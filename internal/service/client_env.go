package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/connectivity"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
)

// clientEnv holds the collaborators shared by the client-side inventory
// components.
type clientEnv struct {
	docs     adapter.DocumentStore
	blobs    adapter.BlobStore
	cache    *store.ClientCache
	probe    connectivity.Probe
	sessions SessionProvider
	ids      utils.IDGenerator
	now      func() time.Time

	logger *logger.Logger
}

// userID returns the session user or ErrNotAuthenticated.
func (e *clientEnv) userID() (int64, error) {
	userID, ok := e.sessions.CurrentUserID()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return userID, nil
}

func (e *clientEnv) online(ctx context.Context) bool {
	return e.probe.IsOnline(ctx)
}

func (e *clientEnv) timestamp() time.Time {
	return e.now().UTC()
}

// localErr marks a cache failure as fatal.
func localErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrLocalStorage, err)
}
