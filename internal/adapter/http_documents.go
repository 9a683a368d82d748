package adapter

import (
	"context"
	"net/url"

	"github.com/MKhiriev/go-stock-keeper/models"
)

func documentsPath(collection string) string {
	return "/api/documents/" + url.PathEscape(collection)
}

func documentPath(collection, id string) string {
	return documentsPath(collection) + "/" + url.PathEscape(id)
}

// Query implements [DocumentStore]. POST /api/documents/{collection}/query.
func (h *httpServerAdapter) Query(ctx context.Context, q models.DocumentQuery) ([]models.Document, error) {
	req, err := h.jsonRequest(ctx, q)
	if err != nil {
		return nil, err
	}

	resp, err := req.Post(documentsPath(q.Collection) + "/query")
	if err != nil {
		return nil, transportError("query request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0)
	if err = decodeBody(resp, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Get implements [DocumentStore]. GET /api/documents/{collection}/{id}.
func (h *httpServerAdapter) Get(ctx context.Context, collection, id string) (models.Document, error) {
	resp, err := h.authedRequest(ctx).Get(documentPath(collection, id))
	if err != nil {
		return models.Document{}, transportError("get document request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	var doc models.Document
	if err = decodeBody(resp, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Create implements [DocumentStore]. POST /api/documents/{collection}.
func (h *httpServerAdapter) Create(ctx context.Context, collection string, createReq models.CreateDocumentRequest) (models.Document, error) {
	req, err := h.jsonRequest(ctx, createReq)
	if err != nil {
		return models.Document{}, err
	}

	resp, err := req.Post(documentsPath(collection))
	if err != nil {
		return models.Document{}, transportError("create document request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	var doc models.Document
	if err = decodeBody(resp, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Update implements [DocumentStore]. PATCH /api/documents/{collection}/{id}.
func (h *httpServerAdapter) Update(ctx context.Context, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	req, err := h.jsonRequest(ctx, patch)
	if err != nil {
		return models.Document{}, err
	}

	resp, err := req.Patch(documentPath(collection, id))
	if err != nil {
		return models.Document{}, transportError("update document request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	var doc models.Document
	if err = decodeBody(resp, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Delete implements [DocumentStore]. DELETE /api/documents/{collection}/{id}.
func (h *httpServerAdapter) Delete(ctx context.Context, collection, id string) error {
	resp, err := h.authedRequest(ctx).Delete(documentPath(collection, id))
	if err != nil {
		return transportError("delete document request", err)
	}
	return mapHTTPError(resp)
}

// Batch implements [DocumentStore]. POST /api/documents/batch.
func (h *httpServerAdapter) Batch(ctx context.Context, batch models.BatchRequest) (models.BatchResult, error) {
	req, err := h.jsonRequest(ctx, batch)
	if err != nil {
		return models.BatchResult{}, err
	}

	resp, err := req.Post("/api/documents/batch")
	if err != nil {
		return models.BatchResult{}, transportError("batch request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BatchResult{}, err
	}

	var result models.BatchResult
	if err = decodeBody(resp, &result); err != nil {
		return models.BatchResult{}, err
	}
	return result, nil
}
