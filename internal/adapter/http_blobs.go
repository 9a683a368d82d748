package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
)

const blobsPrefix = "/api/blobs/"

// blobStore shares the HTTP client and token of its adapter.
type blobStore struct {
	h *httpServerAdapter
}

// Blobs implements [ServerAdapter].
func (h *httpServerAdapter) Blobs() BlobStore {
	return &blobStore{h: h}
}

func blobPath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return blobsPrefix + strings.Join(segments, "/")
}

// Upload implements [BlobStore]. PUT /api/blobs/{path}.
func (b *blobStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req := b.h.authedRequest(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data)
	if b.h.hashKey != "" {
		req.SetHeader(utils.HashHeader, utils.HashBytes(data, b.h.hashKey))
	}

	resp, err := req.Put(blobPath(path))
	if err != nil {
		return "", transportError("upload blob request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var ref models.BlobRef
	if err = decodeBody(resp, &ref); err != nil {
		return "", err
	}
	return ref.URL, nil
}

// Delete implements [BlobStore]. DELETE /api/blobs/{path}.
// ref is either the blob path or a download URL returned by Upload.
func (b *blobStore) Delete(ctx context.Context, ref string) error {
	p, err := blobPathFromRef(ref)
	if err != nil {
		return err
	}

	resp, err := b.h.authedRequest(ctx).Delete(blobPath(p))
	if err != nil {
		return transportError("delete blob request", err)
	}
	return mapHTTPError(resp)
}

// blobPathFromRef extracts the storage path from a URL or returns ref as is.
func blobPathFromRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidBlobRef
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidBlobRef, err)
		}
		_, p, found := strings.Cut(u.Path, blobsPrefix)
		if !found || p == "" {
			return "", fmt.Errorf("%w: %s", ErrInvalidBlobRef, ref)
		}
		return p, nil
	}

	return strings.TrimPrefix(ref, "/"), nil
}
