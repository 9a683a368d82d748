// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. Anything that is not a definite answer from the server is
// reported as ErrRemoteUnavailable so callers fall back to the local cache.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %s", ErrInvalidDataProvided, msg)

	case errors.Is(err, adapter.ErrUnauthorized):
		switch msg {
		case app.MsgInvalidLoginPassword:
			return ErrWrongPassword
		case app.MsgTokenIsExpired:
			return ErrTokenIsExpired
		}
		return ErrTokenIsExpiredOrInvalid

	case errors.Is(err, adapter.ErrForbidden):
		return ErrUnauthorizedAccessToDifferentUserData

	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrItemNotFound, err)

	case errors.Is(err, adapter.ErrConflict):
		switch msg {
		case app.MsgLoginAlreadyExists:
			return store.ErrLoginAlreadyExists
		case app.MsgVersionConflict:
			return fmt.Errorf("%w: %w", ErrRemoteUnavailable, store.ErrVersionConflict)
		}
	}

	return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}

// isNotFound reports whether a mapped or raw adapter error means the remote
// record does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) || errors.Is(err, adapter.ErrNotFound)
}
