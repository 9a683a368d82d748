// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidationKey(t *testing.T) {
	assert.Equal(t, "milk-dairy", ConsolidationKey(models.InventoryItem{Name: "Milk", Category: "DAIRY"}))
	assert.Equal(t, "milk-", ConsolidationKey(models.InventoryItem{Name: "milk"}))
}

func TestConsolidate(t *testing.T) {
	threshold := qtyPtr(3)

	tests := []struct {
		name  string
		items []models.InventoryItem
		want  []models.InventoryItem
	}{
		{
			name:  "empty",
			items: nil,
			want:  []models.InventoryItem{},
		},
		{
			name: "distinct items are kept in order",
			items: []models.InventoryItem{
				{ID: models.RemoteID("1"), Name: "Milk", Quantity: qty(1)},
				{ID: models.RemoteID("2"), Name: "Milk", Category: "Drinks", Quantity: qty(2)},
			},
			want: []models.InventoryItem{
				{ID: models.RemoteID("1"), Name: "Milk", Quantity: qty(1)},
				{ID: models.RemoteID("2"), Name: "Milk", Category: "Drinks", Quantity: qty(2)},
			},
		},
		{
			name: "first record wins and collects the rest",
			items: []models.InventoryItem{
				{ID: models.RemoteID("1"), Name: "Milk", Category: "Dairy", Quantity: qty(1)},
				{ID: models.RemoteID("2"), Name: "Bread", Quantity: qty(1)},
				{ID: models.RemoteID("3"), Name: "MILK", Category: "dairy", Quantity: qty(4), PhotoURL: "u", LowStockThreshold: threshold},
				{ID: models.RemoteID("4"), Name: "milk", Category: "Dairy", Quantity: qty(2), Photo: "p"},
			},
			want: []models.InventoryItem{
				{ID: models.RemoteID("1"), Name: "Milk", Category: "Dairy", Quantity: qty(7), PhotoURL: "u", LowStockThreshold: threshold},
				{ID: models.RemoteID("2"), Name: "Bread", Quantity: qty(1)},
			},
		},
		{
			name: "missing id is filled",
			items: []models.InventoryItem{
				{Name: "Tea", Quantity: qty(1)},
				{ID: models.RemoteID("9"), Name: "tea", Quantity: qty(1)},
			},
			want: []models.InventoryItem{
				{ID: models.RemoteID("9"), Name: "Tea", Quantity: qty(2)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Consolidate(tt.items))
		})
	}
}

func TestConsolidate_Idempotent(t *testing.T) {
	items := []models.InventoryItem{
		{ID: models.RemoteID("1"), Name: "Soap", Quantity: qty(1)},
		{ID: models.RemoteID("2"), Name: "soap", Quantity: qty(2), LowStockThreshold: qtyPtr(1)},
		{ID: models.RemoteID("3"), Name: "Towel", Quantity: qty(5)},
	}

	once := Consolidate(items)
	assert.Equal(t, once, Consolidate(once))
}

func TestConsolidate_DoesNotModifyInput(t *testing.T) {
	items := []models.InventoryItem{
		{ID: models.RemoteID("1"), Name: "Soap", Quantity: qty(1)},
		{ID: models.RemoteID("2"), Name: "soap", Quantity: qty(2), LowStockThreshold: qtyPtr(1)},
	}

	merged := Consolidate(items)
	*merged[0].LowStockThreshold = 99

	assert.Equal(t, qty(1), items[0].Quantity)
	assert.Nil(t, items[0].LowStockThreshold)
	assert.Equal(t, qty(1), *items[1].LowStockThreshold)
}

func TestGroupDuplicates(t *testing.T) {
	items := []models.InventoryItem{
		{ID: models.RemoteID("1"), Name: "A"},
		{ID: models.RemoteID("2"), Name: "B"},
		{ID: models.RemoteID("3"), Name: "a"},
		{ID: models.RemoteID("4"), Name: "C"},
		{ID: models.RemoteID("5"), Name: "b"},
		{ID: models.RemoteID("6"), Name: "A"},
	}

	groups := GroupDuplicates(items)
	require.Len(t, groups, 2)

	ids := func(group []models.InventoryItem) []string {
		out := make([]string, 0, len(group))
		for _, item := range group {
			out = append(out, item.ID.Value)
		}
		return out
	}
	assert.Equal(t, []string{"1", "3", "6"}, ids(groups[0]))
	assert.Equal(t, []string{"2", "5"}, ids(groups[1]))

	assert.Empty(t, GroupDuplicates(Consolidate(items)))
}

// ── Stats ──

func TestComputeStats_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		item      models.InventoryItem
		global    int64
		wantLow   bool
		wantEmpty bool
	}{
		{name: "at global threshold", item: models.InventoryItem{Name: "x", Quantity: qty(5)}, global: 5, wantLow: true},
		{name: "above global threshold", item: models.InventoryItem{Name: "x", Quantity: qty(6)}, global: 5},
		{name: "global rule disabled", item: models.InventoryItem{Name: "x", Quantity: qty(1)}, global: 0},
		{name: "out of stock is never low", item: models.InventoryItem{Name: "x", Quantity: qty(0)}, global: 5, wantEmpty: true},
		{name: "custom threshold wins", item: models.InventoryItem{Name: "x", Quantity: qty(3), LowStockThreshold: qtyPtr(2)}, global: 5},
		{name: "custom threshold boundary", item: models.InventoryItem{Name: "x", Quantity: qty(2), LowStockThreshold: qtyPtr(2)}, global: 0, wantLow: true},
		{name: "zero custom threshold falls back", item: models.InventoryItem{Name: "x", Quantity: qty(4), LowStockThreshold: qtyPtr(0)}, global: 5, wantLow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStats([]models.InventoryItem{tt.item}, tt.global)

			assert.Equal(t, tt.wantLow, stats.LowStockCount == 1)
			assert.Equal(t, tt.wantEmpty, stats.OutOfStockCount == 1)
			assert.Equal(t, tt.global, stats.GlobalThreshold)
		})
	}
}

func TestComputeStats_ConsolidatesBeforeCounting(t *testing.T) {
	items := []models.InventoryItem{
		{Name: "Milk", Category: "Dairy", Quantity: qty(3)},
		{Name: "milk", Category: "dairy", Quantity: qty(4)},
		{Name: "Bread", Quantity: qty(0)},
	}

	stats := ComputeStats(items, 5)
	assert.Equal(t, int64(7), stats.TotalItems)
	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, 0, stats.LowStockCount, "7 is above the threshold once merged")
	assert.Equal(t, 1, stats.OutOfStockCount)
}

func TestComputeStats_RecentItems(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]models.InventoryItem, 0, 7)
	for i := range 7 {
		items = append(items, models.InventoryItem{
			Name:      string(rune('a' + i)),
			Quantity:  qty(10),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	items[0].UpdatedAt = base.Add(24 * time.Hour)

	stats := ComputeStats(items, 5)
	require.Len(t, stats.RecentItems, models.RecentItemsLimit)
	assert.Equal(t, "a", stats.RecentItems[0].Name)
	assert.Equal(t, "g", stats.RecentItems[1].Name)
	assert.Equal(t, "f", stats.RecentItems[2].Name)
}

func TestConsolidate_QuantitySumsIgnoreOrder(t *testing.T) {
	items := []models.InventoryItem{
		{ID: models.RemoteID("1"), Name: "Milk", Category: "Dairy", Quantity: qty(1)},
		{ID: models.RemoteID("2"), Name: "MILK", Category: "dairy", Quantity: qty(4)},
		{ID: models.RemoteID("3"), Name: "Rice", Quantity: qty(2)},
		{ID: models.RemoteID("4"), Name: "rice", Quantity: models.ParseQuantity("many")},
		{ID: models.RemoteID("5"), Name: "Rice", Category: "Grains", Quantity: qty(5)},
	}

	sums := func(items []models.InventoryItem) map[string]int64 {
		out := make(map[string]int64)
		for _, item := range Consolidate(items) {
			out[ConsolidationKey(item)] += item.Quantity.Int64()
		}
		return out
	}

	want := sums(items)
	assert.Equal(t, map[string]int64{"milk-dairy": 5, "rice-": 2, "rice-grains": 5}, want)

	for _, perm := range permutations(items) {
		assert.Equal(t, want, sums(perm))
	}
}

func permutations(items []models.InventoryItem) [][]models.InventoryItem {
	if len(items) <= 1 {
		return [][]models.InventoryItem{append([]models.InventoryItem(nil), items...)}
	}
	var out [][]models.InventoryItem
	for i := range items {
		rest := make([]models.InventoryItem, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]models.InventoryItem{items[i]}, p...))
		}
	}
	return out
}
