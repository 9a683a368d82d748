package service

import (
	"strings"

	"github.com/MKhiriev/go-stock-keeper/models"
)

// ConsolidationKey identifies the logical item a record belongs to:
// lower(name) + "-" + lower(category).
func ConsolidationKey(item models.InventoryItem) string {
	return strings.ToLower(item.Name) + "-" + strings.ToLower(item.Category)
}

// Consolidate merges records of the same logical item. The first record of a
// key survives and keeps its casing; later ones add their quantity and fill
// in the id, the photo pair and the low-stock threshold when the survivor
// lacks them. Output follows first-seen order. Consolidate does not modify
// items.
func Consolidate(items []models.InventoryItem) []models.InventoryItem {
	index := make(map[string]int, len(items))
	result := make([]models.InventoryItem, 0, len(items))

	for _, item := range items {
		key := ConsolidationKey(item)

		pos, seen := index[key]
		if !seen {
			index[key] = len(result)
			result = append(result, copyItem(item))
			continue
		}

		merged := &result[pos]
		merged.Quantity += item.Quantity

		if merged.ID.IsZero() && !item.ID.IsZero() {
			merged.ID = item.ID
		}
		if !merged.HasPhoto() && item.HasPhoto() {
			merged.Photo = item.Photo
			merged.PhotoURL = item.PhotoURL
		}
		if merged.LowStockThreshold == nil && item.LowStockThreshold != nil {
			t := *item.LowStockThreshold
			merged.LowStockThreshold = &t
		}
	}

	return result
}

// GroupDuplicates returns, in first-seen order, every group of two or more
// records sharing a consolidation key.
func GroupDuplicates(items []models.InventoryItem) [][]models.InventoryItem {
	index := make(map[string]int)
	groups := make([][]models.InventoryItem, 0)

	for _, item := range items {
		key := ConsolidationKey(item)
		pos, seen := index[key]
		if !seen {
			index[key] = len(groups)
			groups = append(groups, []models.InventoryItem{item})
			continue
		}
		groups[pos] = append(groups[pos], item)
	}

	duplicates := groups[:0]
	for _, group := range groups {
		if len(group) > 1 {
			duplicates = append(duplicates, group)
		}
	}
	return duplicates
}

// copyItem detaches the threshold pointer so merging never writes through to
// the caller's records.
func copyItem(item models.InventoryItem) models.InventoryItem {
	if item.LowStockThreshold != nil {
		t := *item.LowStockThreshold
		item.LowStockThreshold = &t
	}
	return item
}
