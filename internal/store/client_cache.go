// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/MKhiriev/go-stock-keeper/models"
)

// Cache keys. Per-user keys end with the user id.
const (
	keyItems          = "inventory_items_"
	keyHistory        = "item_history_"
	keySettings       = "user_settings_"
	keyQueue          = "offline_queue_"
	keyPendingUploads = "pending_image_uploads_"
	keyStats          = "inventory_stats_"
	keySession        = "auth_session"
)

// HistoryCacheLimit is the number of newest history entries kept offline.
const HistoryCacheLimit = 200

// ClientCache stores typed client state in a [LocalCache] as JSON.
//
// Read-modify-write helpers (Enqueue, UpdateItems, ...) hold a mutex for the
// whole sequence, so they do not lose updates to each other within one
// process. Writers in other processes sharing the same store still can.
type ClientCache struct {
	cache LocalCache
	mu    sync.Mutex
}

// NewClientCache wraps cache.
func NewClientCache(cache LocalCache) *ClientCache {
	return &ClientCache{cache: cache}
}

func userKey(prefix string, userID int64) string {
	return prefix + strconv.FormatInt(userID, 10)
}

// read decodes key into v. found is false for a missing key.
func (c *ClientCache) read(ctx context.Context, key string, v any) (bool, error) {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err = json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *ClientCache) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return c.cache.Set(ctx, key, string(raw))
}

// ── Items ──

// Items returns the cached item snapshot. Missing snapshot → empty list.
func (c *ClientCache) Items(ctx context.Context, userID int64) ([]models.InventoryItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items(ctx, userID)
}

func (c *ClientCache) items(ctx context.Context, userID int64) ([]models.InventoryItem, error) {
	items := make([]models.InventoryItem, 0)
	if _, err := c.read(ctx, userKey(keyItems, userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveItems replaces the snapshot. Inline photos are dropped.
func (c *ClientCache) SaveItems(ctx context.Context, userID int64, items []models.InventoryItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(ctx, userKey(keyItems, userID), models.StripItems(items))
}

// UpdateItems runs fn on the snapshot and stores its result. fn must not
// call back into the cache.
func (c *ClientCache) UpdateItems(ctx context.Context, userID int64, fn func([]models.InventoryItem) ([]models.InventoryItem, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.items(ctx, userID)
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.write(ctx, userKey(keyItems, userID), models.StripItems(updated))
}

// ── History ──

// History returns the mirrored history, newest first.
func (c *ClientCache) History(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]models.HistoryEntry, 0)
	if _, err := c.read(ctx, userKey(keyHistory, userID), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveHistory replaces the mirror, keeping at most [HistoryCacheLimit] entries.
func (c *ClientCache) SaveHistory(ctx context.Context, userID int64, entries []models.HistoryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(ctx, userKey(keyHistory, userID), capHistory(entries))
}

// PrependHistory adds entry in front of the mirror.
func (c *ClientCache) PrependHistory(ctx context.Context, userID int64, entry models.HistoryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]models.HistoryEntry, 0)
	if _, err := c.read(ctx, userKey(keyHistory, userID), &entries); err != nil {
		return err
	}
	entries = append([]models.HistoryEntry{entry}, entries...)
	return c.write(ctx, userKey(keyHistory, userID), capHistory(entries))
}

func capHistory(entries []models.HistoryEntry) []models.HistoryEntry {
	if len(entries) > HistoryCacheLimit {
		return entries[:HistoryCacheLimit]
	}
	return entries
}

// ── Settings ──

// Settings returns nil when nothing is cached.
func (c *ClientCache) Settings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var settings models.UserSettings
	found, err := c.read(ctx, userKey(keySettings, userID), &settings)
	if err != nil || !found {
		return nil, err
	}
	return &settings, nil
}

func (c *ClientCache) SaveSettings(ctx context.Context, userID int64, settings models.UserSettings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(ctx, userKey(keySettings, userID), settings)
}

// ── Offline queue ──

// Queue returns the pending operations in enqueue order.
func (c *ClientCache) Queue(ctx context.Context, userID int64) ([]models.SyncOperation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue(ctx, userID)
}

func (c *ClientCache) queue(ctx context.Context, userID int64) ([]models.SyncOperation, error) {
	ops := make([]models.SyncOperation, 0)
	if _, err := c.read(ctx, userKey(keyQueue, userID), &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// Enqueue appends op to the queue.
func (c *ClientCache) Enqueue(ctx context.Context, userID int64, op models.SyncOperation) error {
	if err := op.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ops, err := c.queue(ctx, userID)
	if err != nil {
		return err
	}
	return c.write(ctx, userKey(keyQueue, userID), append(ops, op))
}

// FinishQueuePass replaces the first processed entries of the queue with
// failed. Operations enqueued while the pass was running stay behind them.
func (c *ClientCache) FinishQueuePass(ctx context.Context, userID int64, processed int, failed []models.SyncOperation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.queue(ctx, userID)
	if err != nil {
		return err
	}

	var appended []models.SyncOperation
	if processed < len(current) {
		appended = current[processed:]
	}

	next := make([]models.SyncOperation, 0, len(failed)+len(appended))
	next = append(next, failed...)
	next = append(next, appended...)

	if len(next) == 0 {
		return c.cache.Remove(ctx, userKey(keyQueue, userID))
	}
	return c.write(ctx, userKey(keyQueue, userID), next)
}

// ── Pending image uploads ──

func (c *ClientCache) PendingUploads(ctx context.Context, userID int64) ([]models.PendingImageUpload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingUploads(ctx, userID)
}

func (c *ClientCache) pendingUploads(ctx context.Context, userID int64) ([]models.PendingImageUpload, error) {
	uploads := make([]models.PendingImageUpload, 0)
	if _, err := c.read(ctx, userKey(keyPendingUploads, userID), &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

// AddPendingUpload records an upload; a newer photo for the same item
// replaces the older one.
func (c *ClientCache) AddPendingUpload(ctx context.Context, userID int64, upload models.PendingImageUpload) error {
	return c.UpdatePendingUploads(ctx, userID, func(uploads []models.PendingImageUpload) []models.PendingImageUpload {
		kept := uploads[:0]
		for _, u := range uploads {
			if u.ItemID != upload.ItemID {
				kept = append(kept, u)
			}
		}
		return append(kept, upload)
	})
}

// UpdatePendingUploads runs fn on the pending list and stores its result.
func (c *ClientCache) UpdatePendingUploads(ctx context.Context, userID int64, fn func([]models.PendingImageUpload) []models.PendingImageUpload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	uploads, err := c.pendingUploads(ctx, userID)
	if err != nil {
		return err
	}
	updated := fn(uploads)
	if len(updated) == 0 {
		return c.cache.Remove(ctx, userKey(keyPendingUploads, userID))
	}
	return c.write(ctx, userKey(keyPendingUploads, userID), updated)
}

// ── Stats ──

// Stats returns nil when nothing is cached.
func (c *ClientCache) Stats(ctx context.Context, userID int64) (*models.InventoryStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stats models.InventoryStats
	found, err := c.read(ctx, userKey(keyStats, userID), &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

// SaveStats stores stats without inline photos.
func (c *ClientCache) SaveStats(ctx context.Context, userID int64, stats models.InventoryStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(ctx, userKey(keyStats, userID), stats.Stripped())
}

// ── Session ──

// Session returns the persisted bearer token or "" when logged out.
func (c *ClientCache) Session(ctx context.Context) (string, error) {
	raw, err := c.cache.Get(ctx, keySession)
	if errors.Is(err, ErrCacheKeyNotFound) {
		return "", nil
	}
	return raw, err
}

func (c *ClientCache) SaveSession(ctx context.Context, token string) error {
	return c.cache.Set(ctx, keySession, token)
}

func (c *ClientCache) ClearSession(ctx context.Context) error {
	return c.cache.Remove(ctx, keySession)
}
