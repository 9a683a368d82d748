package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
)

type errorResponse struct {
	target  error
	status  int
	message string
}

// errorResponses is ordered: the first matching target wins, so specific
// errors come before the generic SQL ones that may wrap them.
var errorResponses = []errorResponse{
	{service.ErrUnknownCollection, http.StatusNotFound, app.MsgUnknownCollection},
	{service.ErrEmptyBatch, http.StatusBadRequest, app.MsgEmptyBatch},
	{service.ErrValidationNoUserID, http.StatusUnauthorized, app.MsgNoUserIDProvided},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{service.ErrWrongPassword, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
	{service.ErrTokenIsExpired, http.StatusUnauthorized, app.MsgTokenIsExpired},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	{service.ErrBlobAccessDenied, http.StatusForbidden, app.MsgAccessDenied},

	{store.ErrLoginAlreadyExists, http.StatusConflict, app.MsgLoginAlreadyExists},
	{store.ErrNoUserWasFound, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
	{store.ErrVersionConflict, http.StatusConflict, app.MsgVersionConflict},
	{store.ErrDocumentNotFound, http.StatusNotFound, app.MsgDataNotFound},
	{store.ErrBlobNotFound, http.StatusNotFound, app.MsgDataNotFound},
	{store.ErrInvalidBlobPath, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{store.ErrTemporarilyUnavailable, http.StatusServiceUnavailable, app.MsgStorageUnavailable},
}

// responseFromError returns the status code and the app.Msg* body for err.
// Unknown errors are reported as 500 without leaking their text.
func responseFromError(err error) (int, string) {
	for _, resp := range errorResponses {
		if errors.Is(err, resp.target) {
			return resp.status, resp.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

func statusFromError(err error) int {
	status, _ := responseFromError(err)
	return status
}

// writeError logs err with the request logger and writes the mapped response.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status, message := responseFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg(message)

	http.Error(w, message, status)
}
