package models

import "io"

// Blob is a binary object kept in blob storage under a user-scoped path.
type Blob struct {
	// Path is relative to the storage root, e.g. users/42/photos/<uuid>.jpg.
	Path string

	ContentType string
	Size        int64

	// Body is set on reads and writes; callers close it on reads.
	Body io.ReadCloser
}

// BlobRef is returned after an upload.
type BlobRef struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
