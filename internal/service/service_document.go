package service

import (
	"context"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
)

type documentService struct {
	documentRepository store.DocumentRepository
	ids                utils.IDGenerator

	logger *logger.Logger
}

func NewDocumentService(documentRepository store.DocumentRepository, logger *logger.Logger) DocumentService {
	return &documentService{
		documentRepository: documentRepository,
		ids:                utils.NewUUIDGenerator(),
		logger:             logger,
	}
}

func (d *documentService) Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error) {
	return d.documentRepository.Query(ctx, q)
}

func (d *documentService) Get(ctx context.Context, userID int64, collection, id string) (models.Document, error) {
	return d.documentRepository.Get(ctx, userID, collection, id)
}

func (d *documentService) Create(ctx context.Context, userID int64, collection string, req models.CreateDocumentRequest) (models.Document, error) {
	return d.documentRepository.Create(ctx, models.Document{
		ID:             d.ids.Generate(),
		Collection:     collection,
		UserID:         userID,
		Data:           req.Data,
		IdempotencyKey: req.IdempotencyKey,
	})
}

func (d *documentService) Update(ctx context.Context, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	return d.documentRepository.Update(ctx, userID, collection, id, patch)
}

func (d *documentService) Delete(ctx context.Context, userID int64, collection, id string) error {
	return d.documentRepository.Delete(ctx, userID, collection, id)
}

// Batch assigns ids to the creates of req before committing it.
func (d *documentService) Batch(ctx context.Context, req models.BatchRequest) (models.BatchResult, error) {
	ops := make([]models.BatchOperation, len(req.Operations))
	copy(ops, req.Operations)
	for i := range ops {
		if ops[i].Kind == models.BatchCreate {
			ops[i].ID = d.ids.Generate()
		}
	}
	req.Operations = ops

	logger.FromContext(ctx).Debug().
		Str("func", "documentService.Batch").
		Int64("user_id", req.UserID).
		Int("operations", len(ops)).
		Msg("committing batch")
	return d.documentRepository.Batch(ctx, req)
}
