package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/jackc/pgerrcode"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository] over the "documents" table.
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository].
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

// Query returns matching documents in the requested order.
func (r *documentRepository) Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildQueryDocumentsQuery(q)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Query").
			Int64("user_id", q.UserID).
			Str("collection", q.Collection).
			Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Query").
			Int64("user_id", q.UserID).
			Str("collection", q.Collection).
			Msg("failed to execute documents query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.classify(err))
	}
	defer rows.Close()

	docs := make([]models.Document, 0, 50)
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "documentRepository.Query").
				Int64("user_id", q.UserID).
				Msg("failed to scan document row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		docs = append(docs, doc)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "documentRepository.Query").
			Int64("user_id", q.UserID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.classify(rowsErr))
	}

	return docs, nil
}

// Get returns a single document.
func (r *documentRepository) Get(ctx context.Context, userID int64, collection, id string) (models.Document, error) {
	return r.get(ctx, r.DB, userID, collection, id)
}

func (r *documentRepository) get(ctx context.Context, q querier, userID int64, collection, id string) (models.Document, error) {
	log := logger.FromContext(ctx)

	doc, err := scanDocument(q.QueryRowContext(ctx, getDocument, id, userID, collection))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgresError(err) == pgerrcode.InvalidTextRepresentation {
			return models.Document{}, ErrDocumentNotFound
		}
		log.Err(err).
			Str("func", "documentRepository.Get").
			Int64("user_id", userID).
			Str("collection", collection).
			Str("document_id", id).
			Msg("failed to get document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.classify(err))
	}

	return doc, nil
}

// Create inserts the document or returns the one already stored under the
// same idempotency key.
func (r *documentRepository) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	return r.create(ctx, r.DB, doc)
}

func (r *documentRepository) create(ctx context.Context, q querier, doc models.Document) (models.Document, error) {
	log := logger.FromContext(ctx)

	data := string(doc.Data)
	if data == "" {
		data = "{}"
	}

	created, err := scanDocument(q.QueryRowContext(ctx, insertDocument, doc.ID, doc.UserID, doc.Collection, data, doc.IdempotencyKey))
	if err == nil {
		return created, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).
			Str("func", "documentRepository.Create").
			Int64("user_id", doc.UserID).
			Str("collection", doc.Collection).
			Msg("failed to insert document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, r.classify(err))
	}

	// nothing inserted: the idempotency key is taken
	existing, err := scanDocument(q.QueryRowContext(ctx, getDocumentByIdempotencyKey, doc.UserID, doc.Collection, doc.IdempotencyKey))
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Create").
			Int64("user_id", doc.UserID).
			Str("idempotency_key", doc.IdempotencyKey).
			Msg("failed to read document by idempotency key")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.classify(err))
	}

	log.Debug().
		Str("func", "documentRepository.Create").
		Str("document_id", existing.ID).
		Str("idempotency_key", doc.IdempotencyKey).
		Msg("document already created with this idempotency key")
	return existing, nil
}

// Update applies patch and returns the updated document.
func (r *documentRepository) Update(ctx context.Context, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	return r.update(ctx, r.DB, userID, collection, id, patch)
}

func (r *documentRepository) update(ctx context.Context, q querier, userID int64, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateDocumentQuery(userID, collection, id, patch)
	if err != nil {
		log.Err(err).Str("func", "documentRepository.Update").Msg("failed to create query")
		return models.Document{}, err
	}

	updated, err := scanDocument(q.QueryRowContext(ctx, query, args...))
	if err == nil {
		return updated, nil
	}

	if !errors.Is(err, sql.ErrNoRows) && postgresError(err) != pgerrcode.InvalidTextRepresentation {
		log.Err(err).
			Str("func", "documentRepository.Update").
			Int64("user_id", userID).
			Str("document_id", id).
			Msg("failed to update document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, r.classify(err))
	}

	// no row matched: tell a missing document from a stale version
	var version int64
	if err = q.QueryRowContext(ctx, getDocumentVersion, id, userID, collection).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgresError(err) == pgerrcode.InvalidTextRepresentation {
			return models.Document{}, ErrDocumentNotFound
		}
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.classify(err))
	}

	log.Info().
		Str("func", "documentRepository.Update").
		Str("document_id", id).
		Int64("stored_version", version).
		Msg("document version conflict")
	return models.Document{}, ErrVersionConflict
}

// Delete removes a document.
func (r *documentRepository) Delete(ctx context.Context, userID int64, collection, id string) error {
	return r.delete(ctx, r.DB, userID, collection, id)
}

func (r *documentRepository) delete(ctx context.Context, q querier, userID int64, collection, id string) error {
	log := logger.FromContext(ctx)

	result, err := q.ExecContext(ctx, deleteDocument, id, userID, collection)
	if err != nil {
		if postgresError(err) == pgerrcode.InvalidTextRepresentation {
			return ErrDocumentNotFound
		}
		log.Err(err).
			Str("func", "documentRepository.Delete").
			Int64("user_id", userID).
			Str("document_id", id).
			Msg("failed to delete document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.classify(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

// Batch applies all operations in one transaction. Any failure rolls back
// every write of the batch.
func (r *documentRepository) Batch(ctx context.Context, req models.BatchRequest) (models.BatchResult, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "documentRepository.Batch").Msg("failed to begin transaction")
		return models.BatchResult{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, r.classify(err))
	}
	defer tx.Rollback()

	result := models.BatchResult{Documents: make([]models.Document, 0, len(req.Operations))}
	for idx, op := range req.Operations {
		var doc models.Document

		switch op.Kind {
		case models.BatchCreate:
			doc, err = r.create(ctx, tx, models.Document{
				ID:             op.ID,
				Collection:     op.Collection,
				UserID:         req.UserID,
				Data:           op.Data,
				IdempotencyKey: op.IdempotencyKey,
			})
		case models.BatchUpdate:
			var patch models.DocumentPatch
			if op.Patch != nil {
				patch = *op.Patch
			}
			doc, err = r.update(ctx, tx, req.UserID, op.Collection, op.ID, patch)
		case models.BatchDelete:
			err = r.delete(ctx, tx, req.UserID, op.Collection, op.ID)
			doc = models.Document{ID: op.ID, Collection: op.Collection, UserID: req.UserID}
		default:
			err = fmt.Errorf("unknown batch operation kind %q", op.Kind)
		}

		if err != nil {
			log.Err(err).
				Str("func", "documentRepository.Batch").
				Int64("user_id", req.UserID).
				Int("operation", idx).
				Str("kind", string(op.Kind)).
				Msg("batch operation failed")
			return models.BatchResult{}, fmt.Errorf("batch operation %d (%s): %w", idx, op.Kind, err)
		}

		result.Documents = append(result.Documents, doc)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "documentRepository.Batch").Msg("failed to commit transaction")
		return models.BatchResult{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, r.classify(err))
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (models.Document, error) {
	var (
		doc  models.Document
		data []byte
	)

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Collection,
		&data,
		&doc.Version,
		&doc.IdempotencyKey,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return models.Document{}, err
	}

	doc.Data = data
	return doc, nil
}
