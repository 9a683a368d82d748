package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrDocumentNotFound is returned when no document with the given id
	// exists in the collection for the user.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrVersionConflict is returned when a conditional update names a
	// version that is no longer the stored one.
	ErrVersionConflict = errors.New("document version conflict occurred")

	// ErrBlobNotFound is returned when no blob is stored under the path.
	ErrBlobNotFound = errors.New("blob was not found")

	// ErrInvalidBlobPath is returned for empty, absolute or escaping paths.
	ErrInvalidBlobPath = errors.New("invalid blob path")

	// ErrTemporarilyUnavailable wraps driver errors classified as
	// [Retryable].
	ErrTemporarilyUnavailable = errors.New("storage temporarily unavailable")

	// ErrCacheKeyNotFound is returned by [LocalCache.Get] for missing keys.
	ErrCacheKeyNotFound = errors.New("cache key not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingData is returned when a document body cannot be encoded.
	ErrEncodingData = errors.New("failed to encode document data")
)
