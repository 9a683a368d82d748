package adapter

import "errors"

// Errors mapped from HTTP status codes.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
)

var (
	// ErrTransport wraps failures where no HTTP response was received:
	// refused connections, DNS errors, timeouts.
	ErrTransport = errors.New("server unreachable")

	// ErrDecodingResponse is returned when a 2xx body cannot be decoded.
	ErrDecodingResponse = errors.New("error decoding server response")

	// ErrInvalidBlobRef is returned for blob references that name no path.
	ErrInvalidBlobRef = errors.New("invalid blob reference")
)
