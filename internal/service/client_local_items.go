package service

import (
	"context"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// localItems implements the offline write paths. They only touch the local
// cache; updates and deletes also enqueue the matching sync operation.
type localItems struct {
	*clientEnv
}

// find returns the cached record with id.
func (l *localItems) find(ctx context.Context, userID int64, id models.ItemID) (models.InventoryItem, bool, error) {
	items, err := l.cache.Items(ctx, userID)
	if err != nil {
		return models.InventoryItem{}, false, localErr("read cached items", err)
	}
	for _, item := range items {
		if item.ID == id {
			return item, true, nil
		}
	}
	return models.InventoryItem{}, false, nil
}

// save stores item under a new local id. The record itself stands in for the
// add operation, so nothing is queued. An inline photo is kept aside as a
// pending upload.
func (l *localItems) save(ctx context.Context, userID int64, item models.InventoryItem, photo string) (models.ItemID, error) {
	log := logger.FromContext(ctx)

	now := l.timestamp()
	item.ID = models.NewLocalID(now)
	item.UserID = userID
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Version = 0
	if photo == "" {
		photo = item.Photo
	}
	item.Photo = ""

	err := l.cache.UpdateItems(ctx, userID, func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		log.Err(err).Str("func", "localItems.save").Int64("user_id", userID).Msg("failed to save item locally")
		return models.ItemID{}, localErr("save item locally", err)
	}

	if photo != "" {
		if err = l.cache.AddPendingUpload(ctx, userID, models.PendingImageUpload{ItemID: item.ID, Photo: photo, CreatedAt: now}); err != nil {
			return models.ItemID{}, localErr("record pending upload", err)
		}
	}

	log.Info().Str("func", "localItems.save").Str("item_id", item.ID.String()).Msg("item saved locally")
	return item.ID, nil
}

// update patches the cached record, when there is one, and queues the patch.
func (l *localItems) update(ctx context.Context, userID int64, id models.ItemID, patch models.ItemPatch, photo string) error {
	log := logger.FromContext(ctx)

	now := l.timestamp()
	if inline, ok := patch.Photo.Get(); ok && photo == "" {
		photo = inline
	}
	if photo != "" {
		patch.Photo = models.Keep[string]()
	}

	err := l.cache.UpdateItems(ctx, userID, func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		for i := range items {
			if items[i].ID == id {
				items[i] = patch.Apply(items[i])
				items[i].UpdatedAt = now
				break
			}
		}
		return items, nil
	})
	if err != nil {
		log.Err(err).Str("func", "localItems.update").Str("item_id", id.String()).Msg("failed to update cached item")
		return localErr("update item locally", err)
	}

	if photo != "" {
		if err = l.cache.AddPendingUpload(ctx, userID, models.PendingImageUpload{ItemID: id, Photo: photo, CreatedAt: now}); err != nil {
			return localErr("record pending upload", err)
		}
	}

	if err = l.cache.Enqueue(ctx, userID, models.NewUpdateOperation(id, patch, "", l.ids.Generate(), now)); err != nil {
		return localErr("enqueue update", err)
	}

	log.Info().Str("func", "localItems.update").Str("item_id", id.String()).Msg("item updated locally")
	return nil
}

// remove drops the cached record and its pending photo and queues the delete.
func (l *localItems) remove(ctx context.Context, userID int64, id models.ItemID) error {
	log := logger.FromContext(ctx)

	err := l.cache.UpdateItems(ctx, userID, func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	if err != nil {
		log.Err(err).Str("func", "localItems.remove").Str("item_id", id.String()).Msg("failed to delete cached item")
		return localErr("delete item locally", err)
	}

	err = l.cache.UpdatePendingUploads(ctx, userID, func(uploads []models.PendingImageUpload) []models.PendingImageUpload {
		kept := uploads[:0]
		for _, u := range uploads {
			if u.ItemID != id {
				kept = append(kept, u)
			}
		}
		return kept
	})
	if err != nil {
		return localErr("drop pending upload", err)
	}

	if err = l.cache.Enqueue(ctx, userID, models.NewDeleteOperation(id, l.ids.Generate(), l.timestamp())); err != nil {
		return localErr("enqueue delete", err)
	}

	log.Info().Str("func", "localItems.remove").Str("item_id", id.String()).Msg("item deleted locally")
	return nil
}

// localOnly returns the cached records that have no remote document yet.
func (l *localItems) localOnly(ctx context.Context, userID int64) ([]models.InventoryItem, error) {
	items, err := l.cache.Items(ctx, userID)
	if err != nil {
		return nil, localErr("read cached items", err)
	}
	local := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.ID.IsLocal() {
			local = append(local, item)
		}
	}
	return local, nil
}

// storeSnapshot caches a remote snapshot together with the local-only
// records, which the remote side does not know about yet.
func (l *localItems) storeSnapshot(ctx context.Context, userID int64, remote []models.InventoryItem) ([]models.InventoryItem, error) {
	var merged []models.InventoryItem
	err := l.cache.UpdateItems(ctx, userID, func(cached []models.InventoryItem) ([]models.InventoryItem, error) {
		merged = make([]models.InventoryItem, 0, len(remote)+len(cached))
		merged = append(merged, remote...)
		for _, item := range cached {
			if item.ID.IsLocal() {
				merged = append(merged, item)
			}
		}
		return merged, nil
	})
	if err != nil {
		return nil, localErr("cache item snapshot", err)
	}
	return merged, nil
}
