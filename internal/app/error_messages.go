// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the wire-level message strings shared by the server
// handlers and the client adapter.
//
// The server writes a Msg* constant as the body of every error response. The
// client matches on the same constants to tell, for example, a version
// conflict from a duplicate login, since both travel as HTTP 409.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// pair does not match a registered user.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpired is returned when a bearer token is well formed but
	// past its expiry.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token cannot be
	// verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when a request reaches a protected
	// handler without an authenticated user.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgAccessDenied is returned when a user addresses a blob outside their
	// own users/<id>/ prefix.
	MsgAccessDenied = "access denied"

	// MsgLoginAlreadyExists is returned when a registration attempt is made
	// with a login that is already taken.
	MsgLoginAlreadyExists = "login already exists"

	// MsgDataNotFound is returned when a document or blob does not exist for
	// the authenticated user.
	MsgDataNotFound = "data not found"

	// MsgVersionConflict is returned when a conditional write names a version
	// that is no longer current. The client should re-read before retrying.
	MsgVersionConflict = "version conflict, please sync"

	// MsgUnknownCollection is returned for collections the server does not
	// serve.
	MsgUnknownCollection = "unknown collection"

	// MsgEmptyBatch is returned for a batch without operations.
	MsgEmptyBatch = "batch has no operations"

	// MsgIntegrityCheckFailed is returned when the HashSHA256 header does not
	// match the request body.
	MsgIntegrityCheckFailed = "integrity check failed"

	// MsgPayloadTooLarge is returned for blob uploads above the size limit.
	MsgPayloadTooLarge = "payload too large"

	// MsgStorageUnavailable is returned when the database reports a
	// transient failure; the request may be retried.
	MsgStorageUnavailable = "storage temporarily unavailable"
)
