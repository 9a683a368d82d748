package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// itemRepository is the remote side of the inventory. Every write degrades
// to the local paths when the remote store cannot be reached.
type itemRepository struct {
	*clientEnv

	local   *localItems
	history *historyLog
}

// subscribe opens a live query over the user's items, newest first.
func (r *itemRepository) subscribe(ctx context.Context, onChange func([]models.InventoryItem)) (Unsubscribe, error) {
	userID, err := r.userID()
	if err != nil {
		return nil, err
	}
	listeners := r.sessions.Listeners()
	if listeners == nil {
		return nil, ErrNotAuthenticated
	}

	log := logger.FromContext(ctx).With().Str("func", "itemRepository.subscribe").Int64("user_id", userID).Logger()

	fromCache := func() {
		cached, err := r.cache.Items(ctx, userID)
		if err != nil {
			log.Err(err).Msg("failed to read cached items")
			return
		}
		onChange(Consolidate(cached))
	}

	onSnapshot := func(docs []models.Document) {
		remote, err := models.ItemsFromDocuments(docs)
		if err != nil {
			log.Err(err).Msg("undecodable snapshot, using cache")
			fromCache()
			return
		}

		merged, err := r.local.storeSnapshot(ctx, userID, remote)
		if err != nil {
			log.Err(err).Msg("failed to cache snapshot")
			merged = remote
		}
		onChange(Consolidate(merged))
	}

	onError := func(err error) {
		log.Err(err).Msg("subscription failed, using cache")
		fromCache()
	}

	unsubscribe := r.docs.Subscribe(ctx, models.DocumentQuery{
		Collection: models.CollectionItems,
		OrderBy:    models.OrderByCreatedAt,
		Descending: true,
	}, onSnapshot, onError)

	listeners.Register(unsubscribe)
	return unsubscribe, nil
}

// getOne returns the item with id. Remote items carry the summed quantity of
// all their duplicates; the duplicates are left in place.
func (r *itemRepository) getOne(ctx context.Context, id models.ItemID) (models.InventoryItem, error) {
	log := logger.FromContext(ctx)

	userID, err := r.userID()
	if err != nil {
		return models.InventoryItem{}, err
	}

	if !id.IsLocal() {
		item, err := r.getRemote(ctx, id)
		if err == nil {
			return item, nil
		}
		log.Err(err).Str("func", "itemRepository.getOne").Str("item_id", id.String()).Msg("remote read failed, using cache")
	}

	item, found, err := r.local.find(ctx, userID, id)
	if err != nil {
		return models.InventoryItem{}, err
	}
	if !found {
		return models.InventoryItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return item, nil
}

func (r *itemRepository) getRemote(ctx context.Context, id models.ItemID) (models.InventoryItem, error) {
	doc, err := r.docs.Get(ctx, models.CollectionItems, id.Value)
	if err != nil {
		return models.InventoryItem{}, mapAdapterError(err)
	}
	item, err := models.ItemFromDocument(doc)
	if err != nil {
		return models.InventoryItem{}, err
	}

	same, err := r.sameItem(ctx, item)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "itemRepository.getRemote").Str("item_id", id.String()).Msg("duplicate lookup failed")
		return item, nil
	}
	if len(same) > 1 {
		var total models.Quantity
		for _, dup := range same {
			total += dup.Quantity
		}
		item.Quantity = total
	}
	return item, nil
}

// sameItem returns every remote record with the consolidation key of item,
// item itself included. Names are matched case-insensitively by the store;
// categories are compared here because absent and empty categories are the
// same key.
func (r *itemRepository) sameItem(ctx context.Context, item models.InventoryItem) ([]models.InventoryItem, error) {
	docs, err := r.docs.Query(ctx, models.DocumentQuery{
		Collection: models.CollectionItems,
		Filters:    []models.Filter{{Field: "name", Op: models.FilterIEq, Value: item.Name}},
		OrderBy:    models.OrderByCreatedAt,
	})
	if err != nil {
		return nil, mapAdapterError(err)
	}
	candidates, err := models.ItemsFromDocuments(docs)
	if err != nil {
		return nil, err
	}

	key := ConsolidationKey(item)
	same := make([]models.InventoryItem, 0, len(candidates))
	for _, c := range candidates {
		if ConsolidationKey(c) == key {
			same = append(same, c)
		}
	}
	return same, nil
}

// create stores a new item. Offline or on remote failure the item is saved
// locally and a local id is returned.
func (r *itemRepository) create(ctx context.Context, item models.InventoryItem, photo string) (models.ItemID, error) {
	log := logger.FromContext(ctx)

	userID, err := r.userID()
	if err != nil {
		return models.ItemID{}, err
	}
	item.UserID = userID

	if !r.online(ctx) {
		return r.local.save(ctx, userID, item, photo)
	}

	id, err := r.createRemote(ctx, item, photo, r.ids.Generate())
	if err != nil {
		log.Err(err).Str("func", "itemRepository.create").Msg("remote create failed, saving locally")
		return r.local.save(ctx, userID, item, photo)
	}
	return id, nil
}

// createRemote writes the document with the photo inline. key makes a retry
// return the document of the first attempt.
func (r *itemRepository) createRemote(ctx context.Context, item models.InventoryItem, photo, key string) (models.ItemID, error) {
	now := r.timestamp()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if photo != "" {
		item.Photo = photo
	}

	data, err := item.DocumentData()
	if err != nil {
		return models.ItemID{}, err
	}
	doc, err := r.docs.Create(ctx, models.CollectionItems, models.CreateDocumentRequest{Data: data, IdempotencyKey: key})
	if err != nil {
		return models.ItemID{}, mapAdapterError(err)
	}

	item.ID = models.RemoteID(doc.ID)
	r.history.add(ctx, models.NewHistoryEntry(item, models.HistoryAdd, now))

	logger.FromContext(ctx).Info().Str("func", "itemRepository.createRemote").Str("item_id", doc.ID).Msg("item created")
	return item.ID, nil
}

// update applies patch. Local ids, no connectivity and remote failures all
// take the local path.
func (r *itemRepository) update(ctx context.Context, id models.ItemID, patch models.ItemPatch, photo string) error {
	log := logger.FromContext(ctx)

	userID, err := r.userID()
	if err != nil {
		return err
	}

	if id.IsLocal() || !r.online(ctx) {
		return r.local.update(ctx, userID, id, patch, photo)
	}

	if err = r.updateRemote(ctx, userID, id, patch, photo); err != nil {
		log.Err(err).Str("func", "itemRepository.update").Str("item_id", id.String()).Msg("remote update failed, updating locally")
		return r.local.update(ctx, userID, id, patch, photo)
	}
	return nil
}

// updateRemote reads the document, then writes the patch conditionally on
// the version it read.
//
// When the patch sets the quantity without renaming the item, the other
// records of the same item are deleted in the same batch: the caller's
// quantity is taken to be the consolidated total.
func (r *itemRepository) updateRemote(ctx context.Context, userID int64, id models.ItemID, patch models.ItemPatch, photo string) error {
	log := logger.FromContext(ctx)

	doc, err := r.docs.Get(ctx, models.CollectionItems, id.Value)
	if err != nil {
		return mapAdapterError(err)
	}
	current, err := models.ItemFromDocument(doc)
	if err != nil {
		return err
	}

	if inline, ok := patch.Photo.Get(); ok && photo == "" {
		photo = inline
	}
	if photo != "" {
		patch.Photo = models.Set(photo)
		patch.PhotoURL = models.Clear[string]()
	}
	staleBlob := ""
	if patch.PhotoURL.State == models.FieldClear {
		staleBlob = current.PhotoURL
	}

	now := r.timestamp()
	docPatch := patch.DocumentPatch()
	docPatch.Set["updatedAt"] = now.Format(time.RFC3339Nano)
	version := doc.Version
	docPatch.ExpectedVersion = &version

	var duplicates []models.InventoryItem
	if patch.TouchesQuantity() && !patch.ChangesIdentity(current) {
		same, err := r.sameItem(ctx, current)
		if err != nil {
			return err
		}
		for _, s := range same {
			if s.ID != current.ID {
				duplicates = append(duplicates, s)
			}
		}
	}

	if len(duplicates) == 0 {
		if _, err = r.docs.Update(ctx, models.CollectionItems, id.Value, docPatch); err != nil {
			return mapAdapterError(err)
		}
	} else {
		batch := models.BatchRequest{Operations: []models.BatchOperation{{
			Kind:       models.BatchUpdate,
			Collection: models.CollectionItems,
			ID:         id.Value,
			Patch:      &docPatch,
		}}}
		for _, dup := range duplicates {
			batch.Operations = append(batch.Operations, models.BatchOperation{
				Kind:       models.BatchDelete,
				Collection: models.CollectionItems,
				ID:         dup.ID.Value,
			})
		}
		if _, err = r.docs.Batch(ctx, batch); err != nil {
			return mapAdapterError(err)
		}
		log.Info().Str("func", "itemRepository.updateRemote").Str("item_id", id.Value).Int("merged", len(duplicates)).Msg("duplicates merged on write")
	}

	r.dropBlob(ctx, staleBlob)
	r.forgetCached(ctx, userID, duplicates...)

	if patch.ChangesTracked(current) {
		next := patch.Apply(current)
		next.ID = id
		r.history.add(ctx, models.NewHistoryEntry(next, models.HistoryEdit, now).WithPreviousData(current))
	}
	return nil
}

// remove deletes the item. A document that is already gone only leaves the
// cache.
func (r *itemRepository) remove(ctx context.Context, id models.ItemID) error {
	log := logger.FromContext(ctx)

	userID, err := r.userID()
	if err != nil {
		return err
	}

	if id.IsLocal() || !r.online(ctx) {
		return r.local.remove(ctx, userID, id)
	}

	if err = r.removeRemote(ctx, userID, id); err != nil {
		log.Err(err).Str("func", "itemRepository.remove").Str("item_id", id.String()).Msg("remote delete failed, deleting locally")
		return r.local.remove(ctx, userID, id)
	}
	return nil
}

func (r *itemRepository) removeRemote(ctx context.Context, userID int64, id models.ItemID) error {
	doc, err := r.docs.Get(ctx, models.CollectionItems, id.Value)
	if err != nil {
		err = mapAdapterError(err)
		if isNotFound(err) {
			r.forgetCached(ctx, userID, models.InventoryItem{ID: id})
			return nil
		}
		return err
	}
	item, err := models.ItemFromDocument(doc)
	if err != nil {
		return err
	}

	r.dropBlob(ctx, item.PhotoURL)

	if err = r.docs.Delete(ctx, models.CollectionItems, id.Value); err != nil {
		if err = mapAdapterError(err); !isNotFound(err) {
			return err
		}
	}

	r.forgetCached(ctx, userID, item)
	r.history.add(ctx, models.NewHistoryEntry(item, models.HistoryRemove, r.timestamp()).WithPreviousData(item))
	return nil
}

// deleteBlob deletes the blob at ref. A missing blob counts as deleted.
func (r *itemRepository) deleteBlob(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	err := r.blobs.Delete(ctx, ref)
	if err == nil || errors.Is(err, adapter.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrBlobOperationFailed, err)
}

// dropBlob is deleteBlob for stale images: failures are only logged.
func (r *itemRepository) dropBlob(ctx context.Context, ref string) {
	if err := r.deleteBlob(ctx, ref); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "itemRepository.dropBlob").Str("ref", ref).Msg("failed to delete stale photo")
	}
}

// forgetCached removes items from the cached snapshot without queueing
// anything. Failures are logged: the next snapshot corrects the cache.
func (r *itemRepository) forgetCached(ctx context.Context, userID int64, items ...models.InventoryItem) {
	if len(items) == 0 {
		return
	}
	gone := make(map[models.ItemID]struct{}, len(items))
	for _, item := range items {
		gone[item.ID] = struct{}{}
	}

	err := r.cache.UpdateItems(ctx, userID, func(cached []models.InventoryItem) ([]models.InventoryItem, error) {
		kept := cached[:0]
		for _, item := range cached {
			if _, ok := gone[item.ID]; !ok {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "itemRepository.forgetCached").Msg("failed to update cached items")
	}
}
