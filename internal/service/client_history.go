package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// DefaultHistoryLimit is used by GetItemHistory when no limit is given.
const DefaultHistoryLimit = 50

// historyLog writes the audit trail. Nothing here fails its caller.
type historyLog struct {
	*clientEnv
}

// add writes entry remotely when possible, mirrors it into the cache and
// queues it when the remote write did not happen.
func (h *historyLog) add(ctx context.Context, entry models.HistoryEntry) {
	log := logger.FromContext(ctx)

	userID, err := h.userID()
	if err != nil {
		log.Warn().Str("func", "historyLog.add").Msg("history entry dropped: not authenticated")
		return
	}
	if entry.UserID == 0 {
		entry.UserID = userID
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = h.timestamp()
	}
	if entry.PreviousData != nil {
		stripped := entry.PreviousData.Stripped()
		entry.PreviousData = &stripped
	}

	key := h.ids.Generate()

	written := false
	if h.online(ctx) {
		doc, err := h.write(ctx, entry, key)
		if err == nil {
			entry.ID = doc.ID
			written = true
		} else {
			log.Err(err).Str("func", "historyLog.add").Str("item_id", entry.ItemID.String()).Msg("failed to write history entry")
		}
	}

	if !written {
		entry.ID = key
		if err = h.cache.Enqueue(ctx, userID, models.NewAddHistoryOperation(entry, key, h.timestamp())); err != nil {
			log.Err(err).Str("func", "historyLog.add").Msg("failed to queue history entry")
		}
	}

	if err = h.cache.PrependHistory(ctx, userID, entry); err != nil {
		log.Err(err).Str("func", "historyLog.add").Msg("failed to mirror history entry")
	}
}

// write creates the history document. Retries with the same key return the
// document created by the first attempt.
func (h *historyLog) write(ctx context.Context, entry models.HistoryEntry, key string) (models.Document, error) {
	data, err := entry.DocumentData()
	if err != nil {
		return models.Document{}, err
	}
	doc, err := h.docs.Create(ctx, models.CollectionHistory, models.CreateDocumentRequest{Data: data, IdempotencyKey: key})
	if err != nil {
		return models.Document{}, mapAdapterError(err)
	}
	return doc, nil
}

// list reads remote history, refreshing the mirror, and falls back to the
// mirror.
func (h *historyLog) list(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	log := logger.FromContext(ctx)

	userID, err := h.userID()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if h.online(ctx) {
		entries, err := h.listRemote(ctx, limit)
		if err == nil {
			if err = h.cache.SaveHistory(ctx, userID, entries); err != nil {
				log.Err(err).Str("func", "historyLog.list").Msg("failed to refresh history mirror")
			}
			return entries, nil
		}
		log.Err(err).Str("func", "historyLog.list").Msg("remote history unavailable, using cache")
	}

	cached, err := h.cache.History(ctx, userID)
	if err != nil {
		return nil, localErr("read cached history", err)
	}
	if len(cached) > limit {
		cached = cached[:limit]
	}
	return cached, nil
}

func (h *historyLog) listRemote(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	docs, err := h.docs.Query(ctx, models.DocumentQuery{
		Collection: models.CollectionHistory,
		OrderBy:    models.OrderByCreatedAt,
		Descending: true,
		Limit:      uint64(limit),
	})
	if err != nil {
		return nil, mapAdapterError(err)
	}

	entries := make([]models.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		entry, err := models.HistoryFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
