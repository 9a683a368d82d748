package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
)

// ClientStorages groups the client-side storage.
type ClientStorages struct {
	// Cache is the typed offline cache over the local key-value store.
	Cache *ClientCache

	closer func() error
}

// NewClientStorages opens the local key-value store named by cfg.DB.DSN:
// a ".json" path selects the JSON file cache, anything else a migrated
// SQLite database.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	if strings.HasSuffix(cfg.DB.DSN, ".json") {
		cache, err := NewFileCache(cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("file cache error: %w", err)
		}
		return &ClientStorages{Cache: NewClientCache(cache), closer: func() error { return nil }}, nil
	}

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.MigrateSQLite(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Cache:  NewClientCache(NewSQLiteCache(db, logger)),
		closer: db.Close,
	}, nil
}

// Close releases the underlying store.
func (s *ClientStorages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
