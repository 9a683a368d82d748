package models

import (
	"fmt"
	"time"
)

// OperationType tags a queued SyncOperation.
type OperationType string

const (
	OperationAdd          OperationType = "add"
	OperationUpdate       OperationType = "update"
	OperationDelete       OperationType = "delete"
	OperationAddHistory   OperationType = "addHistory"
	OperationSaveSettings OperationType = "saveSettings"
)

// SyncOperation is a mutation waiting to be replayed against the remote
// store. Which payload fields are set depends on Type:
//
//	add          Item
//	update       ItemID, Patch, optional NewPhoto
//	delete       ItemID
//	addHistory   Entry
//	saveSettings Settings
type SyncOperation struct {
	Type OperationType `json:"type"`

	// IdempotencyKey is assigned once at enqueue time and sent with every
	// replay attempt.
	IdempotencyKey string    `json:"idempotencyKey"`
	Timestamp      time.Time `json:"timestamp"`

	Item     *InventoryItem `json:"item,omitempty"`
	ItemID   ItemID         `json:"itemId,omitzero"`
	Patch    *ItemPatch     `json:"updatedData,omitempty"`
	NewPhoto string         `json:"newPhoto,omitempty"`
	Entry    *HistoryEntry  `json:"entry,omitempty"`
	Settings *UserSettings  `json:"settings,omitempty"`
}

// NewAddOperation queues the creation of item.
func NewAddOperation(item InventoryItem, key string, now time.Time) SyncOperation {
	return SyncOperation{Type: OperationAdd, IdempotencyKey: key, Timestamp: now, Item: &item}
}

// NewUpdateOperation queues a partial update of the item with id.
func NewUpdateOperation(id ItemID, patch ItemPatch, newPhoto, key string, now time.Time) SyncOperation {
	return SyncOperation{Type: OperationUpdate, IdempotencyKey: key, Timestamp: now, ItemID: id, Patch: &patch, NewPhoto: newPhoto}
}

// NewDeleteOperation queues the removal of the item with id.
func NewDeleteOperation(id ItemID, key string, now time.Time) SyncOperation {
	return SyncOperation{Type: OperationDelete, IdempotencyKey: key, Timestamp: now, ItemID: id}
}

// NewAddHistoryOperation queues a history append.
func NewAddHistoryOperation(entry HistoryEntry, key string, now time.Time) SyncOperation {
	return SyncOperation{Type: OperationAddHistory, IdempotencyKey: key, Timestamp: now, Entry: &entry}
}

// NewSaveSettingsOperation queues a settings save.
func NewSaveSettingsOperation(settings UserSettings, key string, now time.Time) SyncOperation {
	return SyncOperation{Type: OperationSaveSettings, IdempotencyKey: key, Timestamp: now, Settings: &settings}
}

// Validate checks that the payload required by Type is present.
func (o SyncOperation) Validate() error {
	if o.IdempotencyKey == "" {
		return fmt.Errorf("%w: missing idempotency key", ErrInvalidOperation)
	}

	switch o.Type {
	case OperationAdd:
		if o.Item == nil {
			return fmt.Errorf("%w: add without item", ErrInvalidOperation)
		}
	case OperationUpdate:
		if o.ItemID.IsZero() || o.Patch == nil {
			return fmt.Errorf("%w: update without item id or patch", ErrInvalidOperation)
		}
	case OperationDelete:
		if o.ItemID.IsZero() {
			return fmt.Errorf("%w: delete without item id", ErrInvalidOperation)
		}
	case OperationAddHistory:
		if o.Entry == nil {
			return fmt.Errorf("%w: addHistory without entry", ErrInvalidOperation)
		}
	case OperationSaveSettings:
		if o.Settings == nil {
			return fmt.Errorf("%w: saveSettings without settings", ErrInvalidOperation)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidOperation, o.Type)
	}

	return nil
}
