package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// HistoryAction is the kind of change recorded in the item history.
type HistoryAction string

const (
	HistoryAdd    HistoryAction = "add"
	HistoryEdit   HistoryAction = "edit"
	HistoryRemove HistoryAction = "remove"
	HistoryImport HistoryAction = "import"
	HistoryReset  HistoryAction = "reset"
)

// HistoryEntry is an append-only audit record.
type HistoryEntry struct {
	ID        string        `json:"id,omitempty"`
	ItemID    ItemID        `json:"itemId,omitzero"`
	Name      string        `json:"name"`
	Category  string        `json:"category,omitempty"`
	Quantity  Quantity      `json:"quantity"`
	Action    HistoryAction `json:"action"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    int64         `json:"userId"`

	// PreviousData is the stripped item state before an edit or removal.
	PreviousData *InventoryItem `json:"previousData,omitempty"`
}

// NewHistoryEntry builds an entry describing item.
func NewHistoryEntry(item InventoryItem, action HistoryAction, now time.Time) HistoryEntry {
	return HistoryEntry{
		ItemID:    item.ID,
		Name:      item.Name,
		Category:  item.CategoryOrDefault(),
		Quantity:  item.Quantity,
		Action:    action,
		Timestamp: now,
		UserID:    item.UserID,
	}
}

// WithPreviousData attaches a stripped snapshot of previous.
func (h HistoryEntry) WithPreviousData(previous InventoryItem) HistoryEntry {
	stripped := previous.Stripped()
	h.PreviousData = &stripped
	return h
}

// DocumentData encodes the entry as a remote document body.
func (h HistoryEntry) DocumentData() (json.RawMessage, error) {
	h.ID = ""
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("error encoding history entry: %w", err)
	}
	return data, nil
}

// HistoryFromDocument decodes a remote history document.
func HistoryFromDocument(doc Document) (HistoryEntry, error) {
	var entry HistoryEntry
	if err := json.Unmarshal(doc.Data, &entry); err != nil {
		return HistoryEntry{}, fmt.Errorf("error decoding history entry %s: %w", doc.ID, err)
	}
	entry.ID = doc.ID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = doc.CreatedAt
	}
	return entry, nil
}
