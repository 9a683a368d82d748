package service

import (
	"context"
	"sort"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// ComputeStats summarises items after consolidating them. globalThreshold is
// the effective global low-stock threshold; 0 disables the global rule.
func ComputeStats(items []models.InventoryItem, globalThreshold int64) models.InventoryStats {
	consolidated := Consolidate(items)

	stats := models.InventoryStats{
		LowStockItems:   make([]models.InventoryItem, 0),
		OutOfStockItems: make([]models.InventoryItem, 0),
		RecentItems:     make([]models.InventoryItem, 0, models.RecentItemsLimit),
		GlobalThreshold: globalThreshold,
	}

	categories := make(map[string]struct{})
	for _, item := range consolidated {
		stats.TotalItems += item.Quantity.Int64()
		categories[strings.ToLower(item.CategoryOrDefault())] = struct{}{}

		switch {
		case item.IsOutOfStock():
			stats.OutOfStockItems = append(stats.OutOfStockItems, item)
		case item.IsLowStock(globalThreshold):
			stats.LowStockItems = append(stats.LowStockItems, item)
		}
	}
	stats.TotalCategories = len(categories)
	stats.LowStockCount = len(stats.LowStockItems)
	stats.OutOfStockCount = len(stats.OutOfStockItems)

	recent := make([]models.InventoryItem, len(consolidated))
	copy(recent, consolidated)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastTouched().After(recent[j].LastTouched())
	})
	if len(recent) > models.RecentItemsLimit {
		recent = recent[:models.RecentItemsLimit]
	}
	stats.RecentItems = append(stats.RecentItems, recent...)

	return stats
}

type statsCollector struct {
	*clientEnv

	local    *localItems
	settings *settingsStore
}

// collect reads the raw item list remotely when possible, caching it
// stripped, and falls back to the cached list. The computed stats are cached
// stripped while the returned value keeps inline photos.
func (s *statsCollector) collect(ctx context.Context) (models.InventoryStats, error) {
	log := logger.FromContext(ctx)

	userID, err := s.userID()
	if err != nil {
		return models.InventoryStats{}, err
	}

	var items []models.InventoryItem
	if s.online(ctx) {
		items, err = s.remoteItems(ctx, userID)
		if err != nil {
			log.Err(err).Str("func", "statsCollector.collect").Msg("remote items unavailable, using cache")
			items = nil
		}
	}
	if items == nil {
		if items, err = s.cache.Items(ctx, userID); err != nil {
			return models.InventoryStats{}, localErr("read cached items", err)
		}
	}

	stats := ComputeStats(items, s.settings.globalThreshold(ctx))

	if err = s.cache.SaveStats(ctx, userID, stats); err != nil {
		log.Err(err).Str("func", "statsCollector.collect").Msg("failed to cache stats")
	}
	return stats, nil
}

func (s *statsCollector) remoteItems(ctx context.Context, userID int64) ([]models.InventoryItem, error) {
	docs, err := s.docs.Query(ctx, models.DocumentQuery{
		Collection: models.CollectionItems,
		OrderBy:    models.OrderByCreatedAt,
		Descending: true,
	})
	if err != nil {
		return nil, mapAdapterError(err)
	}
	remote, err := models.ItemsFromDocuments(docs)
	if err != nil {
		return nil, err
	}
	return s.local.storeSnapshot(ctx, userID, remote)
}
