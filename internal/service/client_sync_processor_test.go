package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/mock"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/validators"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSyncOfflineData_SkipsWhenOffline(t *testing.T) {
	ctrl := gomock.NewController(t)

	docs := mock.NewMockDocumentStore(ctrl)
	probe := mock.NewMockProbe(ctrl)
	probe.EXPECT().IsOnline(gomock.Any()).Return(false)

	cache := store.NewClientCache(store.NewMemoryCache())
	ctx := context.Background()
	require.NoError(t, cache.Enqueue(ctx, testUserID, models.NewDeleteOperation(models.RemoteID("doc-1"), "k1", time.Now())))

	env := &clientEnv{
		docs:     docs,
		blobs:    newMemoryBlobs(),
		cache:    cache,
		probe:    probe,
		sessions: &fakeSessions{userID: testUserID, listeners: NewListenerRegistry()},
		ids:      &seqIDs{},
		now:      time.Now,
		logger:   logger.Nop(),
	}
	svc := newInventoryService(env, validators.NewInventoryValidator())

	require.NoError(t, svc.SyncOfflineData(ctx))

	ops, err := cache.Queue(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestSyncOfflineData_SkipsWithoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)

	env := &clientEnv{
		docs:     mock.NewMockDocumentStore(ctrl),
		blobs:    mock.NewMockBlobStore(ctrl),
		cache:    store.NewClientCache(store.NewMemoryCache()),
		probe:    mock.NewMockProbe(ctrl),
		sessions: &fakeSessions{},
		ids:      &seqIDs{},
		now:      time.Now,
		logger:   logger.Nop(),
	}
	svc := newInventoryService(env, validators.NewInventoryValidator())

	require.NoError(t, svc.SyncOfflineData(context.Background()))
}

func TestSyncOfflineData_FailedOperationStaysQueued(t *testing.T) {
	f := newInventoryFixture(t, true)
	ctx := context.Background()

	a := f.docs.seed(t, models.InventoryItem{Name: "A", Quantity: qty(1)})
	b := f.docs.seed(t, models.InventoryItem{Name: "B", Quantity: qty(1)})
	c := f.docs.seed(t, models.InventoryItem{Name: "C", Quantity: qty(1)})

	f.probe.set(false)
	for _, id := range []models.ItemID{a, b, c} {
		require.NoError(t, f.svc.UpdateInventoryItem(ctx, id, models.ItemPatch{Quantity: models.Set(qty(9))}, ""))
	}
	require.Len(t, f.queue(t), 3)

	f.probe.set(true)
	f.docs.fail = func(op, _, id string) error {
		if id == b.Value {
			return fmt.Errorf("%w: %s", adapter.ErrServiceUnavailable, "try later")
		}
		return nil
	}
	require.NoError(t, f.svc.SyncOfflineData(ctx))

	ops := f.queue(t)
	require.Len(t, ops, 1)
	assert.Equal(t, b, ops[0].ItemID)

	f.docs.fail = nil
	require.NoError(t, f.svc.SyncOfflineData(ctx))
	assert.Empty(t, f.queue(t))

	for _, item := range f.docs.items(t) {
		assert.Equal(t, qty(9), item.Quantity, item.Name)
	}
}

func TestSyncOfflineData_ReplayIsIdempotent(t *testing.T) {
	f := newInventoryFixture(t, true)
	ctx := context.Background()

	op := models.NewAddOperation(models.InventoryItem{Name: "Honey", Quantity: qty(2)}, "add-honey", f.now)
	require.NoError(t, f.cache.Enqueue(ctx, testUserID, op))
	require.NoError(t, f.cache.Enqueue(ctx, testUserID, op))

	require.NoError(t, f.svc.SyncOfflineData(ctx))
	assert.Len(t, f.docs.items(t), 1)

	// an interrupted pass replays the same operation again
	require.NoError(t, f.cache.Enqueue(ctx, testUserID, op))
	require.NoError(t, f.svc.SyncOfflineData(ctx))
	assert.Len(t, f.docs.items(t), 1)
	assert.Empty(t, f.queue(t))
}

func TestSyncOfflineData_PromotionIsIdempotent(t *testing.T) {
	f := newInventoryFixture(t, false)
	ctx := context.Background()

	localID, err := f.svc.AddInventoryItem(ctx, models.InventoryItem{Name: "Salt", Quantity: qty(1)}, "")
	require.NoError(t, err)

	// the create lands remotely but the pass dies before the cache is re-keyed
	f.probe.set(true)
	local := f.cachedItems(t)[0]
	_, err = f.svc.items.createRemote(ctx, local, "", localID.Value)
	require.NoError(t, err)

	require.NoError(t, f.svc.SyncOfflineData(ctx))

	remote := f.docs.items(t)
	require.Len(t, remote, 1)
	cached := f.cachedItems(t)
	require.Len(t, cached, 1)
	assert.Equal(t, remote[0].ID, cached[0].ID)
	assert.False(t, cached[0].ID.IsLocal())
}

func TestSyncOfflineData_TranslatesQueuedLocalIDs(t *testing.T) {
	f := newInventoryFixture(t, false)
	ctx := context.Background()

	localID, err := f.svc.AddInventoryItem(ctx, models.InventoryItem{Name: "Tea", Quantity: qty(1)}, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateInventoryItem(ctx, localID, models.ItemPatch{Description: models.Set("green")}, ""))

	f.probe.set(true)
	f.docs.fail = func(op, _, _ string) error {
		if op == "get" {
			return fmt.Errorf("%w: %s", adapter.ErrTransport, "reset")
		}
		return nil
	}
	require.NoError(t, f.svc.SyncOfflineData(ctx))

	remote := f.docs.items(t)
	require.Len(t, remote, 1)

	ops := f.queue(t)
	require.Len(t, ops, 1)
	assert.Equal(t, remote[0].ID, ops[0].ItemID, "failed entries carry the promoted id")
}

func TestSyncOfflineData_DeletedLocalItemIsNotPromoted(t *testing.T) {
	f := newInventoryFixture(t, false)
	ctx := context.Background()

	localID, err := f.svc.AddInventoryItem(ctx, models.InventoryItem{Name: "Gum", Quantity: qty(1)}, tinyPNG)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteInventoryItem(ctx, localID))

	f.probe.set(true)
	require.NoError(t, f.svc.SyncOfflineData(ctx))

	assert.Empty(t, f.docs.items(t))
	assert.Empty(t, f.queue(t))
	uploads, err := f.cache.PendingUploads(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, uploads)
}

func TestSyncOfflineData_ReplaysHistoryAndSettings(t *testing.T) {
	f := newInventoryFixture(t, false)
	ctx := context.Background()

	f.svc.AddToHistory(ctx, models.HistoryEntry{Name: "Milk", Action: models.HistoryImport})
	require.NoError(t, f.svc.SaveUserSettings(ctx, models.UserSettings{GlobalLowStockThreshold: "2"}))
	require.Len(t, f.queue(t), 2)

	f.probe.set(true)
	require.NoError(t, f.svc.SyncOfflineData(ctx))

	assert.Empty(t, f.queue(t))
	assert.Equal(t, 1, f.docs.count(models.CollectionHistory))
	assert.Equal(t, 1, f.docs.count(models.CollectionSettings))
}

func TestTranslateIDs(t *testing.T) {
	local := models.ItemID{Value: "1-abc", Local: true}
	remote := models.RemoteID("doc-9")
	mapping := map[models.ItemID]models.ItemID{local: remote}

	entry := models.HistoryEntry{ItemID: local, Name: "Tea", Action: models.HistoryEdit}
	op := translateIDs(models.NewAddHistoryOperation(entry, "k", time.Now()), mapping)
	assert.Equal(t, remote, op.Entry.ItemID)
	assert.Equal(t, local, entry.ItemID, "the original entry is left alone")

	op = translateIDs(models.NewDeleteOperation(local, "k2", time.Now()), mapping)
	assert.Equal(t, remote, op.ItemID)

	untouched := models.RemoteID("doc-1")
	op = translateIDs(models.NewDeleteOperation(untouched, "k3", time.Now()), mapping)
	assert.Equal(t, untouched, op.ItemID)
}
