package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-stock-keeper/internal/validators"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// DocumentValidationService rejects malformed requests before they reach the
// wrapped DocumentService.
type DocumentValidationService struct {
	inner     DocumentService
	validator validators.Validator
}

func NewDocumentValidationService() DocumentServiceWrapper {
	return &DocumentValidationService{
		validator: validators.NewDocumentValidator(),
	}
}

func (v *DocumentValidationService) Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error) {
	if err := v.validate(ctx, q); err != nil {
		return nil, err
	}
	return v.inner.Query(ctx, q)
}

func (v *DocumentValidationService) Get(ctx context.Context, userID int64, collection, id string) (models.Document, error) {
	if err := v.validateTarget(ctx, userID, collection, id); err != nil {
		return models.Document{}, err
	}
	return v.inner.Get(ctx, userID, collection, id)
}

func (v *DocumentValidationService) Create(ctx context.Context, userID int64, collection string, req models.CreateDocumentRequest) (models.Document, error) {
	if err := v.validateTarget(ctx, userID, collection, "-"); err != nil {
		return models.Document{}, err
	}
	if err := v.validate(ctx, req); err != nil {
		return models.Document{}, err
	}
	return v.inner.Create(ctx, userID, collection, req)
}

func (v *DocumentValidationService) Update(ctx context.Context, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	if err := v.validateTarget(ctx, userID, collection, id); err != nil {
		return models.Document{}, err
	}
	if err := v.validate(ctx, patch); err != nil {
		return models.Document{}, err
	}
	return v.inner.Update(ctx, userID, collection, id, patch)
}

func (v *DocumentValidationService) Delete(ctx context.Context, userID int64, collection, id string) error {
	if err := v.validateTarget(ctx, userID, collection, id); err != nil {
		return err
	}
	return v.inner.Delete(ctx, userID, collection, id)
}

func (v *DocumentValidationService) Batch(ctx context.Context, req models.BatchRequest) (models.BatchResult, error) {
	if len(req.Operations) == 0 {
		return models.BatchResult{}, ErrEmptyBatch
	}
	if err := v.validate(ctx, req); err != nil {
		return models.BatchResult{}, err
	}
	return v.inner.Batch(ctx, req)
}

func (v *DocumentValidationService) Wrap(inner DocumentService) DocumentService {
	v.inner = inner
	return v
}

// validateTarget checks the owner, collection and id a request addresses.
func (v *DocumentValidationService) validateTarget(ctx context.Context, userID int64, collection, id string) error {
	if userID <= 0 {
		return ErrValidationNoUserID
	}
	if id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidDocumentID)
	}
	return v.validate(ctx, models.DocumentQuery{Collection: collection, UserID: userID}, validators.FieldCollection)
}

func (v *DocumentValidationService) validate(ctx context.Context, obj any, fields ...string) error {
	err := v.validator.Validate(ctx, obj, fields...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, validators.ErrInvalidCollection):
		return fmt.Errorf("%w: %w", ErrUnknownCollection, err)
	case errors.Is(err, validators.ErrInvalidUserID):
		return fmt.Errorf("%w: %w", ErrValidationNoUserID, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
}
