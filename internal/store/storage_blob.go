package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/models"
)

const defaultBlobContentType = "application/octet-stream"

// fileBlobStorage keeps blobs as plain files under a root directory. The
// blob path maps one to one onto the file path below the root.
type fileBlobStorage struct {
	root   string
	logger *logger.Logger
}

// NewFileBlobStorage creates the root directory when missing.
func NewFileBlobStorage(cfg config.Files, logger *logger.Logger) (BlobStorage, error) {
	if err := os.MkdirAll(cfg.BinaryDataDir, 0o750); err != nil {
		logger.Err(err).Str("func", "NewFileBlobStorage").Str("dir", cfg.BinaryDataDir).Msg("error creating blob directory")
		return nil, fmt.Errorf("error creating blob directory: %w", err)
	}

	logger.Debug().Str("dir", cfg.BinaryDataDir).Msg("creating file blob storage")
	return &fileBlobStorage{root: cfg.BinaryDataDir, logger: logger}, nil
}

// Save writes the blob body atomically (temp file + rename) and returns the
// number of bytes written.
func (s *fileBlobStorage) Save(ctx context.Context, blob models.Blob) (int64, error) {
	log := logger.FromContext(ctx)

	target, err := s.resolve(blob.Path)
	if err != nil {
		return 0, err
	}
	if blob.Body == nil {
		return 0, fmt.Errorf("%w: empty body", ErrInvalidBlobPath)
	}
	defer blob.Body.Close()

	if err = os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		log.Err(err).Str("func", "fileBlobStorage.Save").Str("path", blob.Path).Msg("error creating blob directory")
		return 0, fmt.Errorf("error creating blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		log.Err(err).Str("func", "fileBlobStorage.Save").Str("path", blob.Path).Msg("error creating temp file")
		return 0, fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, readerWithContext(ctx, blob.Body))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		log.Err(err).Str("func", "fileBlobStorage.Save").Str("path", blob.Path).Msg("error writing blob")
		return 0, fmt.Errorf("error writing blob: %w", err)
	}

	if err = os.Rename(tmp.Name(), target); err != nil {
		log.Err(err).Str("func", "fileBlobStorage.Save").Str("path", blob.Path).Msg("error moving blob in place")
		return 0, fmt.Errorf("error moving blob in place: %w", err)
	}

	return size, nil
}

// Open returns the blob with its body open for reading.
func (s *fileBlobStorage) Open(ctx context.Context, blobPath string) (models.Blob, error) {
	target, err := s.resolve(blobPath)
	if err != nil {
		return models.Blob{}, err
	}

	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Blob{}, ErrBlobNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "fileBlobStorage.Open").Str("path", blobPath).Msg("error opening blob")
		return models.Blob{}, fmt.Errorf("error opening blob: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return models.Blob{}, fmt.Errorf("error reading blob info: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return models.Blob{}, ErrBlobNotFound
	}

	contentType := mime.TypeByExtension(path.Ext(blobPath))
	if contentType == "" {
		contentType = defaultBlobContentType
	}

	return models.Blob{
		Path:        blobPath,
		ContentType: contentType,
		Size:        info.Size(),
		Body:        f,
	}, nil
}

// Delete removes the blob.
func (s *fileBlobStorage) Delete(ctx context.Context, blobPath string) error {
	target, err := s.resolve(blobPath)
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrBlobNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "fileBlobStorage.Delete").Str("path", blobPath).Msg("error deleting blob")
		return fmt.Errorf("error deleting blob: %w", err)
	}

	return nil
}

// resolve maps a slash-separated relative blob path onto the file system.
func (s *fileBlobStorage) resolve(blobPath string) (string, error) {
	if blobPath == "" || strings.HasPrefix(blobPath, "/") || strings.Contains(blobPath, `\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlobPath, blobPath)
	}

	cleaned := path.Clean(blobPath)
	if cleaned != blobPath || cleaned == "." || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlobPath, blobPath)
	}

	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
