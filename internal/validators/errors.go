package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID     = errors.New("invalid user ID")
	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrEmptyData         = errors.New("data is required")
	ErrInvalidData       = errors.New("data must be a JSON object")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrInvalidOrderBy    = errors.New("invalid order by field")
	ErrInvalidLimit      = errors.New("invalid limit")
	ErrNoFieldsToUpdate  = errors.New("at least one field must be provided for update")
	ErrInvalidFieldName  = errors.New("invalid data field name")
	ErrInvalidVersion    = errors.New("invalid Version")
	ErrEmptyBatch        = errors.New("batch operations list cannot be empty")
	ErrBatchTooLarge     = errors.New("batch has too many operations")
	ErrInvalidBatchKind  = errors.New("invalid batch operation kind")

	ErrEmptyName         = errors.New("item name is required")
	ErrNameTooLong       = errors.New("item name is too long")
	ErrInvalidThreshold  = errors.New("invalid low stock threshold")
	ErrInvalidAction     = errors.New("invalid history action")
	ErrInvalidTimestamps = errors.New("updated at precedes created at")
)
