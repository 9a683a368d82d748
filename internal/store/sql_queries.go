package store

import (
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const documentColumns = "id, user_id, collection, data, version, COALESCE(idempotency_key, ''), created_at, updated_at"

const (
	createUser = `INSERT INTO users (login, password_hash, name)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, password_hash, name, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, name, created_at
    FROM users
    WHERE login = $1;`

	insertDocument = `INSERT INTO documents (id, user_id, collection, data, idempotency_key)
    VALUES ($1, $2, $3, $4, NULLIF($5, ''))
    ON CONFLICT (user_id, collection, idempotency_key) DO NOTHING
    RETURNING ` + documentColumns + `;`

	getDocument = `SELECT ` + documentColumns + `
    FROM documents
    WHERE id = $1 AND user_id = $2 AND collection = $3;`

	getDocumentByIdempotencyKey = `SELECT ` + documentColumns + `
    FROM documents
    WHERE user_id = $1 AND collection = $2 AND idempotency_key = $3;`

	getDocumentVersion = `SELECT version
    FROM documents
    WHERE id = $1 AND user_id = $2 AND collection = $3;`

	deleteDocument = `DELETE FROM documents
    WHERE id = $1 AND user_id = $2 AND collection = $3;`
)

// buildQueryDocumentsQuery turns a DocumentQuery into a SELECT.
// Filters compare top-level data fields as text.
func buildQueryDocumentsQuery(q models.DocumentQuery) (string, []any, error) {
	builder := psql.Select(documentColumns).
		From("documents").
		Where(sq.Eq{"user_id": q.UserID, "collection": q.Collection})

	for _, f := range q.Filters {
		switch f.Op {
		case models.FilterIEq:
			builder = builder.Where(sq.Expr("lower(data->>?) = lower(?)", f.Field, f.Value))
		default:
			builder = builder.Where(sq.Expr("data->>? = ?", f.Field, f.Value))
		}
	}

	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}

	switch q.OrderBy {
	case "", models.OrderByCreatedAt:
		builder = builder.OrderBy("created_at " + direction)
	case models.OrderByUpdatedAt:
		builder = builder.OrderBy("updated_at " + direction)
	default:
		builder = builder.OrderByClause("data->>? "+direction, q.OrderBy)
	}
	builder = builder.OrderBy("id " + direction)

	if q.Limit > 0 {
		builder = builder.Limit(q.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateDocumentQuery removes patch.Unset keys, merges patch.Set on top
// and bumps the version. With ExpectedVersion the row only matches when the
// stored version is still the expected one.
func buildUpdateDocumentQuery(userID int64, collection, id string, patch models.DocumentPatch) (string, []any, error) {
	set := patch.Set
	if set == nil {
		set = map[string]any{}
	}
	setJSON, err := json.Marshal(set)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrEncodingData, err)
	}

	expr := new(strings.Builder)
	expr.WriteString("(data")
	args := make([]any, 0, len(patch.Unset)+1)
	for _, key := range patch.Unset {
		expr.WriteString(" - ?::text")
		args = append(args, key)
	}
	expr.WriteString(") || ?::jsonb")
	args = append(args, string(setJSON))

	builder := psql.Update("documents").
		Set("data", sq.Expr(expr.String(), args...)).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "user_id": userID, "collection": collection})

	if patch.ExpectedVersion != nil {
		builder = builder.Where(sq.Eq{"version": *patch.ExpectedVersion})
	}

	query, queryArgs, err := builder.Suffix("RETURNING " + documentColumns).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, queryArgs, nil
}
