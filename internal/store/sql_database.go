package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/migrations"
)

// DB wraps a database/sql pool with the driver-specific error classifier.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the server schema.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// MigrateSQLite applies the client cache schema.
func (db *DB) MigrateSQLite() error {
	return migrations.MigrateSQLite(db.DB)
}

// querier is satisfied by *sql.DB and *sql.Tx so statements can run inside
// or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
