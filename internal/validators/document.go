package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-stock-keeper/models"
)

// Field names understood by DocumentValidator.
const (
	// FieldUserID targets the owner of a query or batch.
	FieldUserID = "user_id"

	// FieldCollection targets the collection a request is addressed to.
	FieldCollection = "collection"

	// FieldData targets a JSON document body.
	FieldData = "data"

	// FieldFilters targets the filters of a query.
	FieldFilters = "filters"

	// FieldOrderBy targets the ordering column of a query.
	FieldOrderBy = "order_by"

	// FieldLimit targets the result limit of a query.
	FieldLimit = "limit"

	// FieldPatch targets the Set and Unset parts of a DocumentPatch.
	FieldPatch = "patch"

	// FieldExpectedVersion targets the optional version guard of a patch.
	FieldExpectedVersion = "expected_version"

	// FieldOperations targets the operation list of a batch.
	FieldOperations = "operations"
)

const (
	// MaxQueryLimit caps the number of documents a query may return.
	MaxQueryLimit = 1000

	// MaxBatchOperations caps the number of writes in one batch.
	MaxBatchOperations = 500
)

var (
	allowedCollections = map[string]bool{
		models.CollectionItems:    true,
		models.CollectionHistory:  true,
		models.CollectionSettings: true,
	}

	fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)
)

// DocumentValidator validates the generic document API models:
// DocumentQuery, CreateDocumentRequest, DocumentPatch, BatchRequest and
// BatchOperation.
type DocumentValidator struct {
}

// NewDocumentValidator constructs a DocumentValidator.
func NewDocumentValidator() Validator {
	return &DocumentValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted; anything else yields ErrUnsupportedType.
func (v *DocumentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.DocumentQuery:
		return v.validateQuery(ctx, value, fields...)
	case *models.DocumentQuery:
		return v.validateQuery(ctx, *value, fields...)
	case models.CreateDocumentRequest:
		return v.validateCreate(ctx, value, fields...)
	case *models.CreateDocumentRequest:
		return v.validateCreate(ctx, *value, fields...)
	case models.DocumentPatch:
		return v.validatePatch(ctx, value, fields...)
	case *models.DocumentPatch:
		return v.validatePatch(ctx, *value, fields...)
	case models.BatchRequest:
		return v.validateBatch(ctx, value, fields...)
	case *models.BatchRequest:
		return v.validateBatch(ctx, *value, fields...)
	case models.BatchOperation:
		return v.validateBatchOperation(ctx, value)
	case *models.BatchOperation:
		return v.validateBatchOperation(ctx, *value)
	default:
		return ErrUnsupportedType
	}
}

func (v *DocumentValidator) validateQuery(ctx context.Context, q models.DocumentQuery, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldCollection, FieldFilters, FieldOrderBy, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if q.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldCollection:
			if !allowedCollections[q.Collection] {
				return ErrInvalidCollection
			}
		case FieldFilters:
			for i, filter := range q.Filters {
				if !fieldNamePattern.MatchString(filter.Field) {
					return fmt.Errorf("%w at index %d: %w", ErrInvalidFilter, i, ErrInvalidFieldName)
				}
				if filter.Op != models.FilterEq && filter.Op != models.FilterIEq {
					return fmt.Errorf("%w at index %d: unknown op %q", ErrInvalidFilter, i, filter.Op)
				}
			}
		case FieldOrderBy:
			switch q.OrderBy {
			case "", models.OrderByCreatedAt, models.OrderByUpdatedAt:
			default:
				if !fieldNamePattern.MatchString(q.OrderBy) {
					return ErrInvalidOrderBy
				}
			}
		case FieldLimit:
			if q.Limit > MaxQueryLimit {
				return ErrInvalidLimit
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validateCreate(ctx context.Context, req models.CreateDocumentRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldData}
	}

	for _, f := range fields {
		switch f {
		case FieldData:
			if err := validateData(req.Data); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validatePatch(ctx context.Context, patch models.DocumentPatch, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPatch, FieldExpectedVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldPatch:
			if patch.IsEmpty() {
				return ErrNoFieldsToUpdate
			}
			for name := range patch.Set {
				if !fieldNamePattern.MatchString(name) {
					return fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
				}
			}
			for _, name := range patch.Unset {
				if !fieldNamePattern.MatchString(name) {
					return fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
				}
			}
		case FieldExpectedVersion:
			if patch.ExpectedVersion != nil && *patch.ExpectedVersion <= 0 {
				return ErrInvalidVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validateBatch(ctx context.Context, req models.BatchRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldOperations}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if req.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldOperations:
			if len(req.Operations) == 0 {
				return ErrEmptyBatch
			}
			if len(req.Operations) > MaxBatchOperations {
				return ErrBatchTooLarge
			}
			for i, op := range req.Operations {
				if err := v.validateBatchOperation(ctx, op); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validateBatchOperation(ctx context.Context, op models.BatchOperation) error {
	if !allowedCollections[op.Collection] {
		return ErrInvalidCollection
	}

	switch op.Kind {
	case models.BatchCreate:
		return validateData(op.Data)
	case models.BatchUpdate:
		if op.ID == "" {
			return ErrInvalidDocumentID
		}
		if op.Patch == nil {
			return ErrNoFieldsToUpdate
		}
		return v.validatePatch(ctx, *op.Patch)
	case models.BatchDelete:
		if op.ID == "" {
			return ErrInvalidDocumentID
		}
		return nil
	default:
		return ErrInvalidBatchKind
	}
}

// validateData accepts only a non-empty JSON object.
func validateData(data json.RawMessage) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return ErrInvalidData
	}
	return nil
}
