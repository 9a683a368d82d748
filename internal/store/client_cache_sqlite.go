package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
)

const (
	getCacheEntry = `SELECT value FROM cache_entries WHERE key = ?;`

	setCacheEntry = `INSERT INTO cache_entries (key, value, updated_at)
    VALUES (?, ?, CURRENT_TIMESTAMP)
    ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	removeCacheEntry = `DELETE FROM cache_entries WHERE key = ?;`

	listCacheKeys = `SELECT key FROM cache_entries ORDER BY key;`
)

// sqliteCache is the SQLite-backed [LocalCache].
type sqliteCache struct {
	*DB
	logger *logger.Logger
}

// NewSQLiteCache wraps an open, migrated SQLite connection.
func NewSQLiteCache(db *DB, logger *logger.Logger) LocalCache {
	return &sqliteCache{DB: db, logger: logger}
}

func (c *sqliteCache) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := c.DB.QueryRowContext(ctx, getCacheEntry, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrCacheKeyNotFound
		}
		c.logger.Err(err).Str("func", "sqliteCache.Get").Str("key", key).Msg("failed to read cache entry")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, nil
}

func (c *sqliteCache) Set(ctx context.Context, key, value string) error {
	if _, err := c.DB.ExecContext(ctx, setCacheEntry, key, value); err != nil {
		c.logger.Err(err).Str("func", "sqliteCache.Set").Str("key", key).Msg("failed to write cache entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (c *sqliteCache) Remove(ctx context.Context, key string) error {
	if _, err := c.DB.ExecContext(ctx, removeCacheEntry, key); err != nil {
		c.logger.Err(err).Str("func", "sqliteCache.Remove").Str("key", key).Msg("failed to remove cache entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (c *sqliteCache) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.DB.QueryContext(ctx, listCacheKeys)
	if err != nil {
		c.logger.Err(err).Str("func", "sqliteCache.Keys").Msg("failed to list cache keys")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	keys := make([]string, 0, 16)
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return keys, nil
}

// RemoveMany deletes keys in one transaction.
func (c *sqliteCache) RemoveMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err = tx.ExecContext(ctx, removeCacheEntry, key); err != nil {
			c.logger.Err(err).Str("func", "sqliteCache.RemoveMany").Str("key", key).Msg("failed to remove cache entry")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
