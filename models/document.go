package models

import (
	"encoding/json"
	"time"
)

// Collections served by the document store.
const (
	CollectionItems    = "items"
	CollectionHistory  = "history"
	CollectionSettings = "settings"
)

// Document is a JSON record stored in a user-scoped collection.
type Document struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	UserID     int64           `json:"user_id"`
	Data       json.RawMessage `json:"data"`

	// Version is incremented on every update and used for conditional writes.
	Version int64 `json:"version"`

	// IdempotencyKey makes creates safe to retry: a second create with the
	// same key returns the existing document.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FilterOp is a comparison used by DocumentQuery filters.
type FilterOp string

const (
	// FilterEq matches data fields equal to the value.
	FilterEq FilterOp = "eq"
	// FilterIEq matches data fields equal to the value ignoring case.
	FilterIEq FilterOp = "ieq"
)

// Filter restricts a query to documents whose top-level data field matches.
type Filter struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value string   `json:"value"`
}

// Ordering columns understood by the document store besides data fields.
const (
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
)

// DocumentQuery selects documents of one collection for one user.
// Collection and UserID come from the request path and the auth token.
type DocumentQuery struct {
	Collection string   `json:"-"`
	UserID     int64    `json:"-"`
	Filters    []Filter `json:"filters,omitempty"`
	OrderBy    string   `json:"order_by,omitempty"`
	Descending bool     `json:"descending,omitempty"`
	Limit      uint64   `json:"limit,omitempty"`
}

// DocumentPatch is a partial update of a document body.
type DocumentPatch struct {
	// Set overwrites top-level data fields.
	Set map[string]any `json:"set,omitempty"`

	// Unset removes top-level data fields.
	Unset []string `json:"unset,omitempty"`

	// ExpectedVersion, when set, makes the update conditional.
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p DocumentPatch) IsEmpty() bool {
	return len(p.Set) == 0 && len(p.Unset) == 0
}

// CreateDocumentRequest is the body of a document create call.
type CreateDocumentRequest struct {
	Data           json.RawMessage `json:"data"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// BatchOperationKind names a write inside a batch.
type BatchOperationKind string

const (
	BatchCreate BatchOperationKind = "create"
	BatchUpdate BatchOperationKind = "update"
	BatchDelete BatchOperationKind = "delete"
)

// BatchOperation is a single write of a BatchRequest.
type BatchOperation struct {
	Kind           BatchOperationKind `json:"kind"`
	Collection     string             `json:"collection"`
	ID             string             `json:"id,omitempty"`
	Data           json.RawMessage    `json:"data,omitempty"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
	Patch          *DocumentPatch     `json:"patch,omitempty"`
}

// BatchRequest groups writes that are committed atomically.
type BatchRequest struct {
	UserID     int64            `json:"-"`
	Operations []BatchOperation `json:"operations"`
}

// BatchResult lists the documents written by a batch, in operation order.
// Deletes leave a document with only ID and Collection set.
type BatchResult struct {
	Documents []Document `json:"documents"`
}
