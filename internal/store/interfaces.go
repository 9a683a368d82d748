package store

import (
	"context"

	"github.com/MKhiriev/go-stock-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// DocumentRepository persists JSON documents scoped by user and collection.
type DocumentRepository interface {
	// Query returns the documents of q.Collection owned by q.UserID that
	// match every filter.
	Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error)

	Get(ctx context.Context, userID int64, collection, id string) (models.Document, error)

	// Create inserts doc. When doc.IdempotencyKey is already used in the same
	// collection, the existing document is returned and nothing is written.
	Create(ctx context.Context, doc models.Document) (models.Document, error)

	// Update merges patch into the document body and bumps its version.
	// A non-nil patch.ExpectedVersion that differs from the stored version
	// fails with ErrVersionConflict.
	Update(ctx context.Context, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error)

	Delete(ctx context.Context, userID int64, collection, id string) error

	// Batch applies all operations in one transaction.
	Batch(ctx context.Context, req models.BatchRequest) (models.BatchResult, error)
}

// BlobStorage keeps binary objects addressed by relative path.
type BlobStorage interface {
	Save(ctx context.Context, blob models.Blob) (int64, error)
	Open(ctx context.Context, path string) (models.Blob, error)
	Delete(ctx context.Context, path string) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
