package models

import "errors"

var (
	// ErrInvalidPatch is returned when a patch field cannot be decoded.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrInvalidOperation is returned by SyncOperation.Validate.
	ErrInvalidOperation = errors.New("invalid sync operation")
)
