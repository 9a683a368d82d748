package service

import (
	"context"
	"strconv"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// settingsKey is the idempotency key of the single settings document of a
// user, so concurrent first saves still create one document.
func settingsKey(userID int64) string {
	return "settings-" + strconv.FormatInt(userID, 10)
}

type settingsStore struct {
	*clientEnv
}

func (s *settingsStore) save(ctx context.Context, settings models.UserSettings) error {
	log := logger.FromContext(ctx)

	userID, err := s.userID()
	if err != nil {
		return err
	}

	now := s.timestamp()
	settings.UserID = userID
	settings.UpdatedAt = now
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}

	if err = s.cache.SaveSettings(ctx, userID, settings); err != nil {
		return localErr("cache settings", err)
	}

	if s.online(ctx) {
		if err = s.upsert(ctx, settings); err == nil {
			return nil
		}
		log.Err(err).Str("func", "settingsStore.save").Int64("user_id", userID).Msg("failed to save settings remotely, queueing")
	}

	if err = s.cache.Enqueue(ctx, userID, models.NewSaveSettingsOperation(settings, s.ids.Generate(), now)); err != nil {
		return localErr("enqueue settings", err)
	}
	return nil
}

// upsert creates the settings document if absent and patches it otherwise.
func (s *settingsStore) upsert(ctx context.Context, settings models.UserSettings) error {
	data, err := settings.DocumentData()
	if err != nil {
		return err
	}

	doc, err := s.docs.Create(ctx, models.CollectionSettings, models.CreateDocumentRequest{
		Data:           data,
		IdempotencyKey: settingsKey(settings.UserID),
	})
	if err != nil {
		return mapAdapterError(err)
	}

	current, err := models.SettingsFromDocument(doc)
	if err == nil && current.GlobalLowStockThreshold == settings.GlobalLowStockThreshold {
		return nil
	}

	_, err = s.docs.Update(ctx, models.CollectionSettings, doc.ID, models.DocumentPatch{
		Set: map[string]any{
			"globalLowStockThreshold": settings.GlobalLowStockThreshold,
			"updatedAt":               settings.UpdatedAt,
		},
	})
	return mapAdapterError(err)
}

// get reads remote settings and falls back to the cache. A user without
// remote settings may still have unsynced ones in the cache.
func (s *settingsStore) get(ctx context.Context) (*models.UserSettings, error) {
	log := logger.FromContext(ctx)

	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	if s.online(ctx) {
		remote, err := s.getRemote(ctx)
		switch {
		case err != nil:
			log.Err(err).Str("func", "settingsStore.get").Msg("remote settings unavailable, using cache")
		case remote != nil:
			if err = s.cache.SaveSettings(ctx, userID, *remote); err != nil {
				log.Err(err).Str("func", "settingsStore.get").Msg("failed to cache settings")
			}
			return remote, nil
		}
	}

	cached, err := s.cache.Settings(ctx, userID)
	if err != nil {
		return nil, localErr("read cached settings", err)
	}
	return cached, nil
}

func (s *settingsStore) getRemote(ctx context.Context) (*models.UserSettings, error) {
	docs, err := s.docs.Query(ctx, models.DocumentQuery{
		Collection: models.CollectionSettings,
		OrderBy:    models.OrderByUpdatedAt,
		Descending: true,
		Limit:      1,
	})
	if err != nil {
		return nil, mapAdapterError(err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	settings, err := models.SettingsFromDocument(docs[0])
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// globalThreshold resolves the effective global threshold, treating a
// failed lookup as unset.
func (s *settingsStore) globalThreshold(ctx context.Context) int64 {
	settings, err := s.get(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "settingsStore.globalThreshold").Msg("settings unavailable, using default threshold")
		return models.EffectiveGlobalThreshold(nil)
	}
	return models.EffectiveGlobalThreshold(settings)
}
