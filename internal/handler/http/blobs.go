package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
)

func (h *Handler) uploadBlob(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.uploadBlob", service.ErrValidationNoUserID)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBlobSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.FromRequest(r).Warn().Str("func", "Handler.uploadBlob").Int64("limit", tooLarge.Limit).Msg("blob is too large")
			http.Error(w, app.MsgPayloadTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, "Handler.uploadBlob", err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	ref, err := h.services.BlobService.Upload(r.Context(), userID, models.Blob{
		Path:        chi.URLParam(r, "*"),
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        io.NopCloser(bytes.NewReader(data)),
	})
	if err != nil {
		writeError(w, r, "Handler.uploadBlob", err)
		return
	}

	utils.WriteJSON(w, ref, http.StatusCreated)
}

func (h *Handler) downloadBlob(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.downloadBlob", service.ErrValidationNoUserID)
		return
	}

	blob, err := h.services.BlobService.Download(r.Context(), userID, chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, r, "Handler.downloadBlob", err)
		return
	}
	defer blob.Body.Close()

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "Handler.downloadBlob").Str("path", blob.Path).Msg("error streaming blob")
	}
}

func (h *Handler) deleteBlob(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.deleteBlob", service.ErrValidationNoUserID)
		return
	}

	if err := h.services.BlobService.Delete(r.Context(), userID, chi.URLParam(r, "*")); err != nil {
		writeError(w, r, "Handler.deleteBlob", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
