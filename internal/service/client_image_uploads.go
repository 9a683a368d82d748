package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/imaging"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

var (
	// errUploadTargetGone marks an upload whose item no longer exists remotely.
	errUploadTargetGone = errors.New("upload target gone")
	errUndecodablePhoto = errors.New("undecodable photo")
)

// imageUploadProcessor moves photos captured offline to blob storage.
type imageUploadProcessor struct {
	*clientEnv

	items *itemRepository
}

// syncPendingImageUploads uploads every pending photo of a promoted item.
// Uploads for local ids wait for promotion; uploads for deleted items or
// undecodable photos are dropped; the rest stay pending on failure.
func (p *imageUploadProcessor) syncPendingImageUploads(ctx context.Context) error {
	log := logger.FromContext(ctx)

	userID, err := p.userID()
	if err != nil {
		return nil
	}

	uploads, err := p.cache.PendingUploads(ctx, userID)
	if err != nil {
		return localErr("read pending uploads", err)
	}
	if len(uploads) == 0 {
		return nil
	}

	done := make(map[uploadKey]struct{}, len(uploads))
	for _, u := range uploads {
		if u.ItemID.IsLocal() {
			continue
		}

		err := p.upload(ctx, userID, u)
		switch {
		case err == nil:
			done[keyOf(u)] = struct{}{}
		case errors.Is(err, errUploadTargetGone), errors.Is(err, errUndecodablePhoto):
			log.Warn().Err(err).Str("func", "imageUploadProcessor.syncPendingImageUploads").Str("item_id", u.ItemID.String()).Msg("pending photo dropped")
			done[keyOf(u)] = struct{}{}
		default:
			log.Err(err).Str("func", "imageUploadProcessor.syncPendingImageUploads").Str("item_id", u.ItemID.String()).Msg("photo upload failed, stays pending")
		}
	}

	err = p.cache.UpdatePendingUploads(ctx, userID, func(current []models.PendingImageUpload) []models.PendingImageUpload {
		kept := current[:0]
		for _, u := range current {
			if _, ok := done[keyOf(u)]; !ok {
				kept = append(kept, u)
			}
		}
		return kept
	})
	if err != nil {
		return localErr("store pending uploads", err)
	}
	return nil
}

func (p *imageUploadProcessor) upload(ctx context.Context, userID int64, u models.PendingImageUpload) error {
	doc, err := p.docs.Get(ctx, models.CollectionItems, u.ItemID.Value)
	if err != nil {
		if err = mapAdapterError(err); isNotFound(err) {
			return fmt.Errorf("%w: %w", errUploadTargetGone, err)
		}
		return err
	}
	item, err := models.ItemFromDocument(doc)
	if err != nil {
		return err
	}

	photo, err := imaging.PrepareInline(u.Photo)
	if err != nil {
		return fmt.Errorf("%w: %w", errUndecodablePhoto, err)
	}

	path := fmt.Sprintf("users/%d/photos/%s%s", userID, p.ids.Generate(), photoExtension(photo.MIME))
	url, err := p.blobs.Upload(ctx, path, photo.Data, photo.MIME)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBlobOperationFailed, err)
	}

	_, err = p.docs.Update(ctx, models.CollectionItems, u.ItemID.Value, models.DocumentPatch{
		Set: map[string]any{
			"photoUrl":  url,
			"updatedAt": p.timestamp().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		p.items.dropBlob(ctx, url)
		if err = mapAdapterError(err); isNotFound(err) {
			return fmt.Errorf("%w: %w", errUploadTargetGone, err)
		}
		return err
	}
	p.items.dropBlob(ctx, item.PhotoURL)

	err = p.cache.UpdateItems(ctx, userID, func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		for i := range items {
			if items[i].ID == u.ItemID {
				items[i].PhotoURL = url
			}
		}
		return items, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "imageUploadProcessor.upload").Msg("failed to update cached photo url")
	}

	logger.FromContext(ctx).Info().Str("func", "imageUploadProcessor.upload").Str("item_id", u.ItemID.Value).Str("path", path).Msg("pending photo uploaded")
	return nil
}

type uploadKey struct {
	id      models.ItemID
	created int64
}

func keyOf(u models.PendingImageUpload) uploadKey {
	return uploadKey{id: u.ItemID, created: u.CreatedAt.UnixNano()}
}

func photoExtension(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	return ""
}
