// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to the go-stock-keeper server: authentication, the
// user-scoped JSON document store and blob storage.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrNotFound] for 404).
// Failures to reach the server at all are reported as [ErrTransport].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-stock-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// AuthClient obtains and holds the bearer token.
type AuthClient interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the current bearer token or "".
	Token() string

	// Register creates an account and stores the returned token.
	Register(ctx context.Context, user models.User) (models.Token, error)

	// Login authenticates and stores the returned token.
	Login(ctx context.Context, user models.User) (models.Token, error)
}

// DocumentStore is the remote document database, scoped to the token owner.
type DocumentStore interface {
	Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error)

	// Subscribe delivers the result of q to onSnapshot now and whenever it
	// changes, until the returned Unsubscribe is called or ctx ends.
	// Failed refreshes are reported to onError.
	Subscribe(ctx context.Context, q models.DocumentQuery, onSnapshot func([]models.Document), onError func(error)) Unsubscribe

	Get(ctx context.Context, collection, id string) (models.Document, error)

	// Create is create-if-absent when req.IdempotencyKey is set: a repeated
	// call returns the document created by the first one.
	Create(ctx context.Context, collection string, req models.CreateDocumentRequest) (models.Document, error)

	// Update fails with ErrConflict when patch.ExpectedVersion is stale.
	Update(ctx context.Context, collection, id string, patch models.DocumentPatch) (models.Document, error)

	Delete(ctx context.Context, collection, id string) error

	// Batch commits all operations atomically.
	Batch(ctx context.Context, req models.BatchRequest) (models.BatchResult, error)
}

// BlobStore is the remote binary storage.
type BlobStore interface {
	// Upload stores data under path and returns its download URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Delete removes a blob by path or download URL.
	Delete(ctx context.Context, ref string) error
}

// ServerAdapter is everything the client needs from the server.
type ServerAdapter interface {
	AuthClient
	DocumentStore

	// Blobs returns the blob store sharing this adapter's token.
	Blobs() BlobStore
}
