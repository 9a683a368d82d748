// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/connectivity"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/internal/validators"
	"github.com/MKhiriev/go-stock-keeper/models"
)

type inventoryService struct {
	env *clientEnv

	items    *itemRepository
	history  *historyLog
	settings *settingsStore
	stats    *statsCollector
	sync     *syncProcessor

	validator validators.Validator
	logger    *logger.Logger
}

// NewInventoryService wires the offline-first inventory over the remote
// document and blob stores and the local cache.
func NewInventoryService(
	docs adapter.DocumentStore,
	blobs adapter.BlobStore,
	cache *store.ClientCache,
	probe connectivity.Probe,
	sessions SessionProvider,
	logger *logger.Logger,
) InventoryService {
	env := &clientEnv{
		docs:     docs,
		blobs:    blobs,
		cache:    cache,
		probe:    probe,
		sessions: sessions,
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
		logger:   logger,
	}
	return newInventoryService(env, validators.NewInventoryValidator())
}

func newInventoryService(env *clientEnv, validator validators.Validator) *inventoryService {
	local := &localItems{clientEnv: env}
	history := &historyLog{clientEnv: env}
	settings := &settingsStore{clientEnv: env}
	items := &itemRepository{clientEnv: env, local: local, history: history}
	uploads := &imageUploadProcessor{clientEnv: env, items: items}

	return &inventoryService{
		env:       env,
		items:     items,
		history:   history,
		settings:  settings,
		stats:     &statsCollector{clientEnv: env, local: local, settings: settings},
		sync:      newSyncProcessor(env, items, settings, uploads),
		validator: validator,
		logger:    env.logger,
	}
}

func (s *inventoryService) GetInventoryItems(ctx context.Context, onChange func([]models.InventoryItem)) (Unsubscribe, error) {
	return s.items.subscribe(ctx, onChange)
}

func (s *inventoryService) AddInventoryItem(ctx context.Context, item models.InventoryItem, photo string) (models.ItemID, error) {
	if err := s.validator.Validate(ctx, item); err != nil {
		return models.ItemID{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	item.ID = models.ItemID{}
	return s.items.create(ctx, item, photo)
}

func (s *inventoryService) GetInventoryItem(ctx context.Context, id models.ItemID) (models.InventoryItem, error) {
	if id.IsZero() {
		return models.InventoryItem{}, fmt.Errorf("%w: empty item id", ErrInvalidDataProvided)
	}
	return s.items.getOne(ctx, id)
}

func (s *inventoryService) UpdateInventoryItem(ctx context.Context, id models.ItemID, patch models.ItemPatch, photo string) error {
	if id.IsZero() {
		return fmt.Errorf("%w: empty item id", ErrInvalidDataProvided)
	}
	fields := []string{validators.FieldName, validators.FieldThreshold}
	if photo == "" {
		fields = append(fields, validators.FieldNotEmpty)
	}
	if err := s.validator.Validate(ctx, patch, fields...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return s.items.update(ctx, id, patch, photo)
}

func (s *inventoryService) DeleteInventoryItem(ctx context.Context, id models.ItemID) error {
	if id.IsZero() {
		return fmt.Errorf("%w: empty item id", ErrInvalidDataProvided)
	}
	return s.items.remove(ctx, id)
}

func (s *inventoryService) GetItemHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	return s.history.list(ctx, limit)
}

func (s *inventoryService) AddToHistory(ctx context.Context, entry models.HistoryEntry) {
	if err := s.validator.Validate(ctx, entry); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "inventoryService.AddToHistory").Msg("invalid history entry dropped")
		return
	}
	s.history.add(ctx, entry)
}

func (s *inventoryService) GetInventoryStats(ctx context.Context) (models.InventoryStats, error) {
	return s.stats.collect(ctx)
}

func (s *inventoryService) SaveUserSettings(ctx context.Context, settings models.UserSettings) error {
	if err := s.validator.Validate(ctx, settings); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return s.settings.save(ctx, settings)
}

func (s *inventoryService) GetUserSettings(ctx context.Context) (*models.UserSettings, error) {
	return s.settings.get(ctx)
}

func (s *inventoryService) SyncOfflineData(ctx context.Context) error {
	return s.sync.syncOfflineData(ctx)
}

// ConsolidateInventoryItems rewrites every group of duplicate remote records
// as one record. The oldest record of a group survives with the merged
// fields; all groups are committed in a single batch.
func (s *inventoryService) ConsolidateInventoryItems(ctx context.Context) error {
	log := logger.FromContext(ctx)

	userID, err := s.env.userID()
	if err != nil {
		return err
	}
	if !s.env.online(ctx) {
		return ErrRemoteUnavailable
	}

	docs, err := s.env.docs.Query(ctx, models.DocumentQuery{
		Collection: models.CollectionItems,
		OrderBy:    models.OrderByCreatedAt,
	})
	if err != nil {
		return mapAdapterError(err)
	}
	items, err := models.ItemsFromDocuments(docs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	groups := GroupDuplicates(items)
	if len(groups) == 0 {
		log.Info().Str("func", "inventoryService.ConsolidateInventoryItems").Int64("user_id", userID).Msg("no duplicates found")
		return nil
	}

	now := s.env.timestamp().Format(time.RFC3339Nano)
	batch := models.BatchRequest{}
	removed := make([]models.InventoryItem, 0)

	for _, group := range groups {
		survivor := group[0]
		merged := Consolidate(group)[0]

		patch := consolidationPatch(survivor, merged, now)
		batch.Operations = append(batch.Operations, models.BatchOperation{
			Kind:       models.BatchUpdate,
			Collection: models.CollectionItems,
			ID:         survivor.ID.Value,
			Patch:      &patch,
		})
		for _, dup := range group[1:] {
			batch.Operations = append(batch.Operations, models.BatchOperation{
				Kind:       models.BatchDelete,
				Collection: models.CollectionItems,
				ID:         dup.ID.Value,
			})
			removed = append(removed, dup)
		}
	}

	if _, err = s.env.docs.Batch(ctx, batch); err != nil {
		return mapAdapterError(err)
	}

	s.items.forgetCached(ctx, userID, removed...)

	log.Info().
		Str("func", "inventoryService.ConsolidateInventoryItems").
		Int64("user_id", userID).
		Int("groups", len(groups)).
		Int("removed", len(removed)).
		Msg("inventory consolidated")
	return nil
}

// consolidationPatch moves the merged fields onto the surviving document.
func consolidationPatch(survivor, merged models.InventoryItem, now string) models.DocumentPatch {
	patch := models.DocumentPatch{Set: map[string]any{
		"quantity":  merged.Quantity,
		"updatedAt": now,
	}}
	if !survivor.HasPhoto() && merged.HasPhoto() {
		if merged.Photo != "" {
			patch.Set["photo"] = merged.Photo
		}
		if merged.PhotoURL != "" {
			patch.Set["photoUrl"] = merged.PhotoURL
		}
	}
	if survivor.LowStockThreshold == nil && merged.LowStockThreshold != nil {
		patch.Set["lowStockThreshold"] = *merged.LowStockThreshold
	}
	version := survivor.Version
	patch.ExpectedVersion = &version
	return patch
}
