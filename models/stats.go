package models

// RecentItemsLimit is the number of items listed in InventoryStats.RecentItems.
const RecentItemsLimit = 5

// InventoryStats summarises a user's consolidated inventory.
type InventoryStats struct {
	TotalItems      int64           `json:"totalItems"`
	TotalCategories int             `json:"totalCategories"`
	LowStockCount   int             `json:"lowStockCount"`
	OutOfStockCount int             `json:"outOfStockCount"`
	LowStockItems   []InventoryItem `json:"lowStockItems"`
	OutOfStockItems []InventoryItem `json:"outOfStockItems"`
	RecentItems     []InventoryItem `json:"recentItems"`

	// GlobalThreshold is the threshold the stats were computed with.
	GlobalThreshold int64 `json:"globalThreshold"`
}

// Stripped returns a copy whose item lists carry no inline photos.
func (s InventoryStats) Stripped() InventoryStats {
	s.LowStockItems = StripItems(s.LowStockItems)
	s.OutOfStockItems = StripItems(s.OutOfStockItems)
	s.RecentItems = StripItems(s.RecentItems)
	return s
}
