// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
)

func (h *Handler) queryDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.queryDocuments", service.ErrValidationNoUserID)
		return
	}

	// an empty body is a query without filters
	var query models.DocumentQuery
	if err := utils.ReadJSON(r, &query); err != nil && !errors.Is(err, utils.ErrEmptyBody) {
		writeError(w, r, "Handler.queryDocuments", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}
	query.Collection = chi.URLParam(r, "collection")
	query.UserID = userID

	docs, err := h.services.DocumentService.Query(r.Context(), query)
	if err != nil {
		writeError(w, r, "Handler.queryDocuments", err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}

	utils.WriteJSON(w, docs, http.StatusOK)
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.createDocument", service.ErrValidationNoUserID)
		return
	}

	var req models.CreateDocumentRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		writeError(w, r, "Handler.createDocument", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	doc, err := h.services.DocumentService.Create(r.Context(), userID, chi.URLParam(r, "collection"), req)
	if err != nil {
		writeError(w, r, "Handler.createDocument", err)
		return
	}

	utils.WriteJSON(w, doc, http.StatusCreated)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.getDocument", service.ErrValidationNoUserID)
		return
	}

	doc, err := h.services.DocumentService.Get(r.Context(), userID, chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Handler.getDocument", err)
		return
	}

	utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.updateDocument", service.ErrValidationNoUserID)
		return
	}

	var patch models.DocumentPatch
	if err := utils.ReadJSON(r, &patch); err != nil {
		writeError(w, r, "Handler.updateDocument", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	doc, err := h.services.DocumentService.Update(r.Context(), userID, chi.URLParam(r, "collection"), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, "Handler.updateDocument", err)
		return
	}

	utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.deleteDocument", service.ErrValidationNoUserID)
		return
	}

	if err := h.services.DocumentService.Delete(r.Context(), userID, chi.URLParam(r, "collection"), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "Handler.deleteDocument", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) batchDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, "Handler.batchDocuments", service.ErrValidationNoUserID)
		return
	}

	var req models.BatchRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		writeError(w, r, "Handler.batchDocuments", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}
	req.UserID = userID

	result, err := h.services.DocumentService.Batch(r.Context(), req)
	if err != nil {
		writeError(w, r, "Handler.batchDocuments", err)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}
