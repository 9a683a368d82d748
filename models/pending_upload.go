package models

import "time"

// PendingImageUpload is an inline photo captured offline that still has to be
// uploaded to blob storage.
type PendingImageUpload struct {
	ItemID    ItemID    `json:"itemId"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}
