package service

import "errors"

// Server-side errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrPasswordHashingFailed   = errors.New("password hashing failed")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")

	ErrValidationNoUserID = errors.New("no user ID was given")
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrEmptyBatch         = errors.New("batch has no operations")

	// ErrBlobAccessDenied is returned for blob paths outside users/<id>/.
	ErrBlobAccessDenied = errors.New("blob path belongs to another user")
)

// Client-side errors returned by the inventory services.
var (
	// ErrNotAuthenticated means no user is logged in. Never falls back.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrItemNotFound means the item is neither remote nor cached.
	ErrItemNotFound = errors.New("item not found")

	// ErrRemoteUnavailable marks a failed remote call. Callers fall back to
	// the local cache and the sync queue.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrBlobOperationFailed marks a blob upload or delete that failed for a
	// reason other than the blob being gone.
	ErrBlobOperationFailed = errors.New("blob operation failed")

	// ErrLocalStorage means the local cache itself failed; there is nothing
	// left to fall back to.
	ErrLocalStorage = errors.New("local storage failure")

	// ErrUnauthorizedAccessToDifferentUserData means the server refused to
	// serve data of another user.
	ErrUnauthorizedAccessToDifferentUserData = errors.New("unauthorized access to different user data")

	ErrRegisterOnServer = errors.New("registration on server failed")
	ErrLoginOnServer    = errors.New("login on server failed")
)
