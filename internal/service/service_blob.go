package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// BlobURLPrefix is the route blobs are served under.
const BlobURLPrefix = "/api/blobs/"

type blobService struct {
	storage   store.BlobStorage
	publicURL string

	logger *logger.Logger
}

// NewBlobService builds download URLs from cfg.PublicURL, or from the HTTP
// address when no public URL is configured.
func NewBlobService(storage store.BlobStorage, cfg config.Server, logger *logger.Logger) BlobService {
	publicURL := cfg.PublicURL
	if publicURL == "" && cfg.HTTPAddress != "" {
		publicURL = "http://" + cfg.HTTPAddress
	}
	return &blobService{
		storage:   storage,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (b *blobService) Upload(ctx context.Context, userID int64, blob models.Blob) (models.BlobRef, error) {
	log := logger.FromContext(ctx)

	p, err := ownedBlobPath(userID, blob.Path)
	if err != nil {
		log.Warn().Err(err).Str("func", "blobService.Upload").Int64("user_id", userID).Str("path", blob.Path).Msg("blob path rejected")
		return models.BlobRef{}, err
	}
	blob.Path = p

	size, err := b.storage.Save(ctx, blob)
	if err != nil {
		return models.BlobRef{}, err
	}

	log.Info().Str("func", "blobService.Upload").Int64("user_id", userID).Str("path", p).Int64("size", size).Msg("blob stored")
	return models.BlobRef{Path: p, URL: b.publicURL + BlobURLPrefix + p}, nil
}

func (b *blobService) Download(ctx context.Context, userID int64, blobPath string) (models.Blob, error) {
	p, err := ownedBlobPath(userID, blobPath)
	if err != nil {
		return models.Blob{}, err
	}
	return b.storage.Open(ctx, p)
}

func (b *blobService) Delete(ctx context.Context, userID int64, blobPath string) error {
	p, err := ownedBlobPath(userID, blobPath)
	if err != nil {
		return err
	}
	return b.storage.Delete(ctx, p)
}

// ownedBlobPath cleans p and requires it to sit below users/<userID>/.
func ownedBlobPath(userID int64, p string) (string, error) {
	if userID <= 0 {
		return "", ErrValidationNoUserID
	}
	cleaned := path.Clean("/" + p)[1:]
	prefix := fmt.Sprintf("users/%d/", userID)
	if !strings.HasPrefix(cleaned, prefix) || len(cleaned) == len(prefix) {
		return "", fmt.Errorf("%w: %s", ErrBlobAccessDenied, p)
	}
	return cleaned, nil
}
