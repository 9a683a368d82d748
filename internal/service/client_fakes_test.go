package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/connectivity"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/validators"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/require"
)

// memoryDocs is an in-memory adapter.DocumentStore with the semantics of the
// server: idempotent creates, versioned updates and atomic batches.
type memoryDocs struct {
	mu    sync.Mutex
	docs  map[string]models.Document
	seq   int
	base  time.Time
	fail  func(op, collection, id string) error
	calls map[string]int
}

func newMemoryDocs() *memoryDocs {
	return &memoryDocs{
		docs:  make(map[string]models.Document),
		base:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		calls: make(map[string]int),
	}
}

func (m *memoryDocs) failure(op, collection, id string) error {
	m.calls[op]++
	if m.fail == nil {
		return nil
	}
	return m.fail(op, collection, id)
}

func (m *memoryDocs) Query(_ context.Context, q models.DocumentQuery) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("query", q.Collection, ""); err != nil {
		return nil, err
	}
	return m.query(q), nil
}

func (m *memoryDocs) query(q models.DocumentQuery) []models.Document {
	result := make([]models.Document, 0)
	for _, doc := range m.docs {
		if doc.Collection == q.Collection && matches(doc, q.Filters) {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if q.Descending {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if q.Limit > 0 && uint64(len(result)) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}

func matches(doc models.Document, filters []models.Filter) bool {
	var body map[string]any
	_ = json.Unmarshal(doc.Data, &body)
	for _, f := range filters {
		value := fmt.Sprint(body[f.Field])
		if body[f.Field] == nil {
			value = ""
		}
		switch f.Op {
		case models.FilterIEq:
			if !strings.EqualFold(value, f.Value) {
				return false
			}
		default:
			if value != f.Value {
				return false
			}
		}
	}
	return true
}

func (m *memoryDocs) Subscribe(ctx context.Context, q models.DocumentQuery, onSnapshot func([]models.Document), onError func(error)) adapter.Unsubscribe {
	docs, err := m.Query(ctx, q)
	if err != nil {
		onError(err)
	} else {
		onSnapshot(docs)
	}
	return func() {}
}

func (m *memoryDocs) Get(_ context.Context, collection, id string) (models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("get", collection, id); err != nil {
		return models.Document{}, err
	}
	doc, ok := m.docs[id]
	if !ok || doc.Collection != collection {
		return models.Document{}, fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgDataNotFound)
	}
	return doc, nil
}

func (m *memoryDocs) Create(_ context.Context, collection string, req models.CreateDocumentRequest) (models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("create", collection, ""); err != nil {
		return models.Document{}, err
	}
	return m.create(collection, req.Data, req.IdempotencyKey), nil
}

func (m *memoryDocs) create(collection string, data json.RawMessage, key string) models.Document {
	if key != "" {
		for _, doc := range m.docs {
			if doc.Collection == collection && doc.IdempotencyKey == key {
				return doc
			}
		}
	}
	m.seq++
	doc := models.Document{
		ID:             fmt.Sprintf("doc-%d", m.seq),
		Collection:     collection,
		UserID:         1,
		Data:           append(json.RawMessage(nil), data...),
		Version:        1,
		IdempotencyKey: key,
		CreatedAt:      m.base.Add(time.Duration(m.seq) * time.Second),
	}
	doc.UpdatedAt = doc.CreatedAt
	m.docs[doc.ID] = doc
	return doc
}

func (m *memoryDocs) Update(_ context.Context, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("update", collection, id); err != nil {
		return models.Document{}, err
	}
	return m.update(collection, id, patch)
}

func (m *memoryDocs) update(collection, id string, patch models.DocumentPatch) (models.Document, error) {
	doc, ok := m.docs[id]
	if !ok || doc.Collection != collection {
		return models.Document{}, fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgDataNotFound)
	}
	if patch.ExpectedVersion != nil && *patch.ExpectedVersion != doc.Version {
		return models.Document{}, fmt.Errorf("%w: %s", adapter.ErrConflict, app.MsgVersionConflict)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(doc.Data, &body); err != nil || body == nil {
		body = make(map[string]json.RawMessage)
	}
	for k, v := range patch.Set {
		raw, err := json.Marshal(v)
		if err != nil {
			return models.Document{}, err
		}
		body[k] = raw
	}
	for _, k := range patch.Unset {
		delete(body, k)
	}
	data, _ := json.Marshal(body)

	doc.Data = data
	doc.Version++
	m.docs[id] = doc
	return doc, nil
}

func (m *memoryDocs) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("delete", collection, id); err != nil {
		return err
	}
	return m.delete(collection, id)
}

func (m *memoryDocs) delete(collection, id string) error {
	doc, ok := m.docs[id]
	if !ok || doc.Collection != collection {
		return fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgDataNotFound)
	}
	delete(m.docs, id)
	return nil
}

func (m *memoryDocs) Batch(_ context.Context, req models.BatchRequest) (models.BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("batch", "", ""); err != nil {
		return models.BatchResult{}, err
	}

	snapshot := make(map[string]models.Document, len(m.docs))
	for k, v := range m.docs {
		snapshot[k] = v
	}
	seq := m.seq

	result := models.BatchResult{}
	for _, op := range req.Operations {
		var (
			doc models.Document
			err error
		)
		switch op.Kind {
		case models.BatchCreate:
			doc = m.create(op.Collection, op.Data, op.IdempotencyKey)
		case models.BatchUpdate:
			doc, err = m.update(op.Collection, op.ID, *op.Patch)
		case models.BatchDelete:
			err = m.delete(op.Collection, op.ID)
			doc = models.Document{ID: op.ID, Collection: op.Collection}
		}
		if err != nil {
			m.docs, m.seq = snapshot, seq
			return models.BatchResult{}, err
		}
		result.Documents = append(result.Documents, doc)
	}
	return result, nil
}

// items decodes every remote item, oldest first.
func (m *memoryDocs) items(t *testing.T) []models.InventoryItem {
	t.Helper()
	m.mu.Lock()
	docs := m.query(models.DocumentQuery{Collection: models.CollectionItems})
	m.mu.Unlock()
	items, err := models.ItemsFromDocuments(docs)
	require.NoError(t, err)
	return items
}

func (m *memoryDocs) count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.query(models.DocumentQuery{Collection: collection}))
}

// seed stores item as a remote document and returns its id.
func (m *memoryDocs) seed(t *testing.T, item models.InventoryItem) models.ItemID {
	t.Helper()
	data, err := item.DocumentData()
	require.NoError(t, err)
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.RemoteID(m.create(models.CollectionItems, data, "").ID)
}

// memoryBlobs is an in-memory adapter.BlobStore.
type memoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	fail    error
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: make(map[string][]byte), types: make(map[string]string)}
}

const blobURLPrefix = "http://blobs.test/api/blobs/"

func (b *memoryBlobs) Upload(_ context.Context, path string, data []byte, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return "", b.fail
	}
	b.objects[path] = data
	b.types[path] = contentType
	return blobURLPrefix + path, nil
}

func (b *memoryBlobs) Delete(_ context.Context, ref string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	path := strings.TrimPrefix(ref, blobURLPrefix)
	if _, ok := b.objects[path]; !ok {
		return fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgDataNotFound)
	}
	delete(b.objects, path)
	return nil
}

// fakeSessions is a SessionProvider with a fixed user.
type fakeSessions struct {
	userID    int64
	listeners *ListenerRegistry
}

func (f *fakeSessions) CurrentUserID() (int64, bool) { return f.userID, f.userID > 0 }

func (f *fakeSessions) Listeners() *ListenerRegistry { return f.listeners }

// switchProbe is a connectivity probe the test can flip.
type switchProbe struct {
	mu     sync.Mutex
	online bool
}

func (p *switchProbe) IsOnline(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *switchProbe) set(online bool) {
	p.mu.Lock()
	p.online = online
	p.mu.Unlock()
}

var _ connectivity.Probe = (*switchProbe)(nil)

// seqIDs hands out predictable idempotency keys.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("key-%d", s.n)
}

// inventoryFixture wires an inventoryService over in-memory collaborators.
type inventoryFixture struct {
	docs     *memoryDocs
	blobs    *memoryBlobs
	probe    *switchProbe
	cache    *store.ClientCache
	sessions *fakeSessions
	svc      *inventoryService
	now      time.Time
}

const testUserID int64 = 1

func newInventoryFixture(t *testing.T, online bool) *inventoryFixture {
	t.Helper()

	f := &inventoryFixture{
		docs:     newMemoryDocs(),
		blobs:    newMemoryBlobs(),
		probe:    &switchProbe{online: online},
		cache:    store.NewClientCache(store.NewMemoryCache()),
		sessions: &fakeSessions{userID: testUserID, listeners: NewListenerRegistry()},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	env := &clientEnv{
		docs:     f.docs,
		blobs:    f.blobs,
		cache:    f.cache,
		probe:    f.probe,
		sessions: f.sessions,
		ids:      &seqIDs{},
		now:      func() time.Time { return f.now },
		logger:   logger.Nop(),
	}
	f.svc = newInventoryService(env, validators.NewInventoryValidator())
	return f
}

func (f *inventoryFixture) cachedItems(t *testing.T) []models.InventoryItem {
	t.Helper()
	items, err := f.cache.Items(context.Background(), testUserID)
	require.NoError(t, err)
	return items
}

func (f *inventoryFixture) queue(t *testing.T) []models.SyncOperation {
	t.Helper()
	ops, err := f.cache.Queue(context.Background(), testUserID)
	require.NoError(t, err)
	return ops
}

// tinyPNG is a 2x2 PNG as a data URI.
var tinyPNG = func() string {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}()

func qty(n int64) models.Quantity { return models.Quantity(n) }

func qtyPtr(n int64) *models.Quantity { q := models.Quantity(n); return &q }
