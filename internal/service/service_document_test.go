// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/mock"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestDocumentService(t *testing.T) (DocumentService, *mock.MockDocumentRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockDocumentRepository(ctrl)
	svc := NewDocumentValidationService().Wrap(NewDocumentService(repo, logger.Nop()))
	return svc, repo
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestDocumentService_Create_AssignsIDAndPassesKey(t *testing.T) {
	svc, repo := newTestDocumentService(t)
	ctx := context.Background()

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, doc models.Document) (models.Document, error) {
			assert.NotEmpty(t, doc.ID)
			assert.Equal(t, int64(5), doc.UserID)
			assert.Equal(t, models.CollectionItems, doc.Collection)
			assert.Equal(t, "key-1", doc.IdempotencyKey)
			doc.Version = 1
			return doc, nil
		},
	)

	doc, err := svc.Create(ctx, 5, models.CollectionItems, models.CreateDocumentRequest{
		Data:           json.RawMessage(`{"name":"Milk"}`),
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Version)
}

func TestDocumentService_Create_Validation(t *testing.T) {
	svc, _ := newTestDocumentService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 5, "secrets", models.CreateDocumentRequest{Data: json.RawMessage(`{}`)})
	require.ErrorIs(t, err, ErrUnknownCollection)

	_, err = svc.Create(ctx, 0, models.CollectionItems, models.CreateDocumentRequest{Data: json.RawMessage(`{}`)})
	require.ErrorIs(t, err, ErrValidationNoUserID)

	_, err = svc.Create(ctx, 5, models.CollectionItems, models.CreateDocumentRequest{Data: json.RawMessage(`"x"`)})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ── Query / Get ──────────────────────────────────────────────────────────────

func TestDocumentService_Query(t *testing.T) {
	svc, repo := newTestDocumentService(t)
	ctx := context.Background()

	q := models.DocumentQuery{
		Collection: models.CollectionItems,
		UserID:     5,
		Filters:    []models.Filter{{Field: "name", Op: models.FilterIEq, Value: "milk"}},
	}
	repo.EXPECT().Query(ctx, q).Return([]models.Document{{ID: "a"}}, nil)

	docs, err := svc.Query(ctx, q)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	q.Filters[0].Op = "regex"
	_, err = svc.Query(ctx, q)
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestDocumentService_Get_NotFound(t *testing.T) {
	svc, repo := newTestDocumentService(t)
	ctx := context.Background()

	repo.EXPECT().Get(ctx, int64(5), models.CollectionItems, "a").Return(models.Document{}, store.ErrDocumentNotFound)

	_, err := svc.Get(ctx, 5, models.CollectionItems, "a")
	require.ErrorIs(t, err, store.ErrDocumentNotFound)

	_, err = svc.Get(ctx, 5, models.CollectionItems, "")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ── Update / Delete ──────────────────────────────────────────────────────────

func TestDocumentService_Update_VersionConflict(t *testing.T) {
	svc, repo := newTestDocumentService(t)
	ctx := context.Background()

	version := int64(3)
	patch := models.DocumentPatch{Set: map[string]any{"quantity": 4}, ExpectedVersion: &version}
	repo.EXPECT().Update(ctx, int64(5), models.CollectionItems, "a", patch).Return(models.Document{}, store.ErrVersionConflict)

	_, err := svc.Update(ctx, 5, models.CollectionItems, "a", patch)
	require.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestDocumentService_Update_EmptyPatch(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Update(context.Background(), 5, models.CollectionItems, "a", models.DocumentPatch{})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestDocumentService_Delete(t *testing.T) {
	svc, repo := newTestDocumentService(t)
	ctx := context.Background()

	repo.EXPECT().Delete(ctx, int64(5), models.CollectionHistory, "h").Return(nil)
	require.NoError(t, svc.Delete(ctx, 5, models.CollectionHistory, "h"))
}

// ── Batch ────────────────────────────────────────────────────────────────────

func TestDocumentService_Batch_AssignsCreateIDs(t *testing.T) {
	svc, repo := newTestDocumentService(t)
	ctx := context.Background()

	req := models.BatchRequest{
		UserID: 5,
		Operations: []models.BatchOperation{
			{Kind: models.BatchCreate, Collection: models.CollectionHistory, Data: json.RawMessage(`{"action":"add"}`)},
			{Kind: models.BatchDelete, Collection: models.CollectionItems, ID: "b"},
		},
	}

	repo.EXPECT().Batch(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, got models.BatchRequest) (models.BatchResult, error) {
			assert.NotEmpty(t, got.Operations[0].ID)
			assert.Equal(t, "b", got.Operations[1].ID)
			return models.BatchResult{Documents: []models.Document{{ID: got.Operations[0].ID}, {ID: "b"}}}, nil
		},
	)

	result, err := svc.Batch(ctx, req)
	require.NoError(t, err)
	assert.Len(t, result.Documents, 2)
	assert.Empty(t, req.Operations[0].ID, "caller's request is not modified")
}

func TestDocumentService_Batch_Empty(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Batch(context.Background(), models.BatchRequest{UserID: 5})
	require.ErrorIs(t, err, ErrEmptyBatch)
}
