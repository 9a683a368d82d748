package service

import (
	"context"

	"github.com/MKhiriev/go-stock-keeper/models"
)

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// DocumentService serves the user-scoped document collections.
type DocumentService interface {
	Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error)
	Get(ctx context.Context, userID int64, collection, id string) (models.Document, error)

	// Create stores a new document. A request repeating an idempotency key
	// gets the document created by the first one.
	Create(ctx context.Context, userID int64, collection string, req models.CreateDocumentRequest) (models.Document, error)

	// Update applies patch; a stale ExpectedVersion yields
	// store.ErrVersionConflict.
	Update(ctx context.Context, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error)
	Delete(ctx context.Context, userID int64, collection, id string) error

	// Batch commits all operations or none.
	Batch(ctx context.Context, req models.BatchRequest) (models.BatchResult, error)
}

// BlobService stores binary objects under users/<userID>/.
type BlobService interface {
	Upload(ctx context.Context, userID int64, blob models.Blob) (models.BlobRef, error)
	Download(ctx context.Context, userID int64, path string) (models.Blob, error)
	Delete(ctx context.Context, userID int64, path string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// DocumentServiceWrapper defines middleware composition for DocumentService.
// Implementations wrap an existing DocumentService to add behavior such as
// validation.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService
}
