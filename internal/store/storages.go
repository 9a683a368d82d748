package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	UserRepository     UserRepository
	DocumentRepository DocumentRepository
	BlobStorage        BlobStorage

	db *DB
}

// NewStorages connects to Postgres, applies migrations and prepares the blob
// directory.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	blobs, err := NewFileBlobStorage(cfg.Files, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storages{
		UserRepository:     NewUserRepository(db, logger),
		DocumentRepository: NewDocumentRepository(db, logger),
		BlobStorage:        blobs,
		db:                 db,
	}, nil
}

// Close releases the database pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
