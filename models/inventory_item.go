package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultCategory is used for items stored without a category.
const DefaultCategory = "Uncategorized"

// InventoryItem is a stock record owned by a single user.
//
// Several records may describe the same logical item (same name and category,
// compared case-insensitively); readers consolidate them before presenting
// quantities or stock alerts.
type InventoryItem struct {
	// ID is the remote document id or a local-only id. Zero for new items.
	// It is never part of the remote document body.
	ID ItemID `json:"id,omitzero"`

	// Name is required and forms half of the consolidation key.
	Name string `json:"name"`

	// Category forms the other half of the consolidation key.
	// Empty means DefaultCategory.
	Category string `json:"category,omitempty"`

	Quantity Quantity `json:"quantity"`

	// LowStockThreshold overrides the global threshold when set and > 0.
	LowStockThreshold *Quantity `json:"lowStockThreshold,omitempty"`

	// Photo is an inline-encoded image (data URI or raw base64).
	// It must not be written to long-lived cache entries, see Stripped.
	Photo string `json:"photo,omitempty"`

	// PhotoURL references an uploaded blob.
	PhotoURL string `json:"photoUrl,omitempty"`

	Description string `json:"description,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	UserID int64 `json:"userId"`

	// Version is the remote document version the record was read at.
	Version int64 `json:"version,omitempty"`
}

// CategoryOrDefault returns the category or DefaultCategory when empty.
func (i InventoryItem) CategoryOrDefault() string {
	if i.Category == "" {
		return DefaultCategory
	}
	return i.Category
}

// HasPhoto reports whether the item carries any image representation.
func (i InventoryItem) HasPhoto() bool {
	return i.Photo != "" || i.PhotoURL != ""
}

// CustomThreshold returns the per-item threshold when it is set and positive.
func (i InventoryItem) CustomThreshold() (int64, bool) {
	if i.LowStockThreshold == nil || *i.LowStockThreshold <= 0 {
		return 0, false
	}
	return i.LowStockThreshold.Int64(), true
}

// IsOutOfStock reports whether nothing is left.
func (i InventoryItem) IsOutOfStock() bool {
	return i.Quantity == 0
}

// IsLowStock applies the threshold precedence: a positive per-item threshold
// wins over the global one; a global threshold of 0 disables the global rule.
// Out-of-stock items are never low stock.
func (i InventoryItem) IsLowStock(globalThreshold int64) bool {
	q := i.Quantity.Int64()
	if q <= 0 {
		return false
	}
	if t, ok := i.CustomThreshold(); ok {
		return q <= t
	}
	return globalThreshold > 0 && q <= globalThreshold
}

// LastTouched returns the later of UpdatedAt and CreatedAt.
func (i InventoryItem) LastTouched() time.Time {
	if i.UpdatedAt.After(i.CreatedAt) {
		return i.UpdatedAt
	}
	return i.CreatedAt
}

// Stripped returns a copy without the inline photo.
func (i InventoryItem) Stripped() InventoryItem {
	i.Photo = ""
	return i
}

// StripItems returns stripped copies of items.
func StripItems(items []InventoryItem) []InventoryItem {
	stripped := make([]InventoryItem, len(items))
	for idx, item := range items {
		stripped[idx] = item.Stripped()
	}
	return stripped
}

// DocumentData encodes the item as a remote document body.
// ID and Version live on the document itself and are left out.
func (i InventoryItem) DocumentData() (json.RawMessage, error) {
	i.ID = ItemID{}
	i.Version = 0

	data, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("error encoding inventory item: %w", err)
	}
	return data, nil
}

// ItemFromDocument decodes a remote document into an InventoryItem.
func ItemFromDocument(doc Document) (InventoryItem, error) {
	var item InventoryItem
	if err := json.Unmarshal(doc.Data, &item); err != nil {
		return InventoryItem{}, fmt.Errorf("error decoding inventory item %s: %w", doc.ID, err)
	}

	item.ID = RemoteID(doc.ID)
	item.Version = doc.Version
	if item.UserID == 0 {
		item.UserID = doc.UserID
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = doc.CreatedAt
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = doc.UpdatedAt
	}

	return item, nil
}

// ItemsFromDocuments decodes documents in order. The first decoding error
// aborts.
func ItemsFromDocuments(docs []Document) ([]InventoryItem, error) {
	items := make([]InventoryItem, 0, len(docs))
	for _, doc := range docs {
		item, err := ItemFromDocument(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
