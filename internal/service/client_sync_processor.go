package service

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

const (
	otelScope      = "go-stock-keeper/sync"
	spanSync       = "sync.offline_data"
	spanReplay     = "sync.replay"
	metricReplayed = "sync.operations.replayed"
	metricFailed   = "sync.operations.failed"
)

// syncProcessor replays offline work against the remote store.
type syncProcessor struct {
	*clientEnv

	items    *itemRepository
	local    *localItems
	history  *historyLog
	settings *settingsStore
	uploads  *imageUploadProcessor

	// mu makes passes of one process run one after another.
	mu sync.Mutex

	tracer      trace.Tracer
	cntReplayed metric.Int64Counter
	cntFailed   metric.Int64Counter
}

func newSyncProcessor(env *clientEnv, items *itemRepository, settings *settingsStore, uploads *imageUploadProcessor) *syncProcessor {
	meter := otel.Meter(otelScope)

	mustCounter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			env.logger.Err(err).Str("func", "newSyncProcessor").Str("name", name).Msg("creating otel counter")
			return noop.Int64Counter{}
		}
		return c
	}

	return &syncProcessor{
		clientEnv:   env,
		items:       items,
		local:       items.local,
		history:     items.history,
		settings:    settings,
		uploads:     uploads,
		tracer:      otel.Tracer(otelScope),
		cntReplayed: mustCounter(metricReplayed, "Number of queued operations replayed successfully"),
		cntFailed:   mustCounter(metricFailed, "Number of queued operations that failed and stay queued"),
	}
}

// syncOfflineData runs one pass: promotion of local-only items, the queue,
// then pending photo uploads. Only local storage failures are returned.
func (p *syncProcessor) syncOfflineData(ctx context.Context) error {
	userID, ok := p.sessions.CurrentUserID()
	if !ok || !p.online(ctx) {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, span := p.tracer.Start(ctx, spanSync, trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	log := logger.FromContext(ctx)

	mapping, promoted, err := p.promote(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "promotion failed")
		return err
	}

	replayed, failed, err := p.replayQueue(ctx, userID, mapping)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue pass failed")
		return err
	}

	if err = p.uploads.syncPendingImageUploads(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image uploads failed")
		return err
	}

	span.SetAttributes(
		attribute.Int("sync.promoted", promoted),
		attribute.Int("sync.replayed", replayed),
		attribute.Int("sync.failed", failed),
	)
	log.Info().
		Str("func", "syncProcessor.syncOfflineData").
		Int64("user_id", userID).
		Int("promoted", promoted).
		Int("replayed", replayed).
		Int("failed", failed).
		Msg("offline data synced")
	return nil
}

// promote creates a remote document for every local-only item. The local id
// is the idempotency key, so a pass interrupted after the create does not
// duplicate the item. Promoted records are re-keyed in the cache along with
// their pending photos. Items that fail stay local for the next pass.
func (p *syncProcessor) promote(ctx context.Context, userID int64) (map[models.ItemID]models.ItemID, int, error) {
	log := logger.FromContext(ctx)

	locals, err := p.local.localOnly(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	mapping := make(map[models.ItemID]models.ItemID, len(locals))
	for _, item := range locals {
		op := models.NewAddOperation(item, item.ID.Value, item.CreatedAt)

		var remoteID models.ItemID
		item.UserID = userID
		err := p.traced(ctx, op, func(ctx context.Context) error {
			var createErr error
			remoteID, createErr = p.items.createRemote(ctx, item, "", op.IdempotencyKey)
			return createErr
		})
		if err != nil {
			log.Err(err).Str("func", "syncProcessor.promote").Str("item_id", item.ID.String()).Msg("local item stays local")
			continue
		}
		mapping[item.ID] = remoteID
	}

	if len(mapping) == 0 {
		return mapping, 0, nil
	}

	err = p.cache.UpdateItems(ctx, userID, func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		for i := range items {
			if remoteID, ok := mapping[items[i].ID]; ok {
				items[i].ID = remoteID
				items[i].Version = 1
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, 0, localErr("re-key promoted items", err)
	}

	err = p.cache.UpdatePendingUploads(ctx, userID, func(uploads []models.PendingImageUpload) []models.PendingImageUpload {
		for i := range uploads {
			if remoteID, ok := mapping[uploads[i].ItemID]; ok {
				uploads[i].ItemID = remoteID
			}
		}
		return uploads
	})
	if err != nil {
		return nil, 0, localErr("re-key pending uploads", err)
	}

	return mapping, len(mapping), nil
}

// replayQueue replays the queue in order. Failed operations form the new
// head of the queue; operations enqueued during the pass stay behind them.
func (p *syncProcessor) replayQueue(ctx context.Context, userID int64, mapping map[models.ItemID]models.ItemID) (int, int, error) {
	log := logger.FromContext(ctx)

	ops, err := p.cache.Queue(ctx, userID)
	if err != nil {
		return 0, 0, localErr("read sync queue", err)
	}
	if len(ops) == 0 {
		return 0, 0, nil
	}

	failed := make([]models.SyncOperation, 0)
	for _, op := range ops {
		op = translateIDs(op, mapping)

		if err := p.traced(ctx, op, func(ctx context.Context) error {
			return p.replay(ctx, userID, op)
		}); err != nil {
			log.Err(err).
				Str("func", "syncProcessor.replayQueue").
				Str("type", string(op.Type)).
				Str("idempotency_key", op.IdempotencyKey).
				Msg("replay failed, operation stays queued")
			failed = append(failed, op)
		}
	}

	if err = p.cache.FinishQueuePass(ctx, userID, len(ops), failed); err != nil {
		return 0, 0, localErr("store sync queue", err)
	}
	return len(ops) - len(failed), len(failed), nil
}

func (p *syncProcessor) replay(ctx context.Context, userID int64, op models.SyncOperation) error {
	switch op.Type {
	case models.OperationAdd:
		return p.replayAdd(ctx, userID, op)
	case models.OperationUpdate:
		return p.replayUpdate(ctx, userID, op)
	case models.OperationDelete:
		return p.replayDelete(ctx, userID, op)
	case models.OperationAddHistory:
		return p.replayHistory(ctx, op)
	case models.OperationSaveSettings:
		return p.replaySettings(ctx, userID, op)
	}
	return op.Validate()
}

func (p *syncProcessor) replayAdd(ctx context.Context, userID int64, op models.SyncOperation) error {
	item := *op.Item
	item.UserID = userID
	_, err := p.items.createRemote(ctx, item, "", op.IdempotencyKey)
	return err
}

// replayUpdate succeeds without effect for a local id that was never
// promoted (the record was deleted locally) and for a missing document.
func (p *syncProcessor) replayUpdate(ctx context.Context, userID int64, op models.SyncOperation) error {
	if op.ItemID.IsLocal() {
		return nil
	}
	err := p.items.updateRemote(ctx, userID, op.ItemID, *op.Patch, op.NewPhoto)
	if isNotFound(err) {
		return nil
	}
	return err
}

func (p *syncProcessor) replayDelete(ctx context.Context, userID int64, op models.SyncOperation) error {
	if op.ItemID.IsLocal() {
		return nil
	}
	return p.items.removeRemote(ctx, userID, op.ItemID)
}

func (p *syncProcessor) replayHistory(ctx context.Context, op models.SyncOperation) error {
	_, err := p.history.write(ctx, *op.Entry, op.IdempotencyKey)
	return err
}

func (p *syncProcessor) replaySettings(ctx context.Context, userID int64, op models.SyncOperation) error {
	settings := *op.Settings
	settings.UserID = userID
	return p.settings.upsert(ctx, settings)
}

// traced runs fn inside a replay span and counts the outcome.
func (p *syncProcessor) traced(ctx context.Context, op models.SyncOperation, fn func(context.Context) error) error {
	attrs := []attribute.KeyValue{
		attribute.String("sync.operation", string(op.Type)),
		attribute.String("sync.idempotency_key", op.IdempotencyKey),
	}

	ctx, span := p.tracer.Start(ctx, spanReplay, trace.WithAttributes(attrs...))
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replay failed")
		p.cntFailed.Add(ctx, 1, metric.WithAttributes(attrs[0]))
		return err
	}

	p.cntReplayed.Add(ctx, 1, metric.WithAttributes(attrs[0]))
	return nil
}

// translateIDs rewrites local ids promoted in this pass to their remote ids.
func translateIDs(op models.SyncOperation, mapping map[models.ItemID]models.ItemID) models.SyncOperation {
	if remoteID, ok := mapping[op.ItemID]; ok {
		op.ItemID = remoteID
	}
	if op.Entry != nil {
		if remoteID, ok := mapping[op.Entry.ItemID]; ok {
			entry := *op.Entry
			entry.ItemID = remoteID
			op.Entry = &entry
		}
	}
	return op
}
