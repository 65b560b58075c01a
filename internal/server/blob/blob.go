package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of an upload is buffered for content type detection
const sniffLen = 3072

type BlobService struct {
	backend Backend
	config  *S3Config
	now     func() time.Time
}

func NewBlobService(cfg *S3Config) (*BlobService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("blob config: %w", err)
	}

	backend, err := NewS3BackendWithConfig(cfg)
	if err != nil {
		return nil, err
	}

	return NewBlobServiceWithBackend(cfg, backend), nil
}

// NewBlobServiceWithBackend creates a service over an existing backend. cfg
// must already be validated.
func NewBlobServiceWithBackend(cfg *S3Config, backend Backend) *BlobService {
	return &BlobService{
		backend: backend,
		config:  cfg,
		now:     time.Now,
	}
}

// Upload stores a single file and returns where it can be fetched from
func (b *BlobService) Upload(ctx context.Context, params *UploadParams) (*UploadResult, error) {
	ext, ok := uploadExtension(params.FileName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormatNotAllowed, params.FileName)
	}

	if params.Size <= 0 {
		return nil, ErrEmptyFile
	}

	if limit := b.config.MaxUploadBytes(); limit > 0 && params.Size > limit {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge,
			humanize.Bytes(uint64(params.Size)), humanize.Bytes(uint64(limit)))
	}

	folder := strings.Trim(params.Folder, "/")
	if folder == "" {
		folder = b.config.Folder
	}

	key := objectKey(folder, params.Field, b.now(), ext)
	if !ValidateKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(params.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()

	resp, err := b.backend.PutObject(ctx, &PutObjectParams{
		Key:         key,
		Size:        params.Size,
		ContentType: contentType,
		Body:        io.MultiReader(bytes.NewReader(head), params.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	slog.Info("blob upload", "key", key, "contentType", contentType, "size", humanize.Bytes(uint64(resp.Size)))

	return &UploadResult{
		Key:         key,
		URL:         b.URL(key),
		ContentType: contentType,
		ETag:        resp.ETag,
		Size:        resp.Size,
	}, nil
}

// Delete removes an uploaded object
func (b *BlobService) Delete(ctx context.Context, key string) error {
	if _, err := b.backend.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	slog.Info("blob delete", "key", key)
	return nil
}

// URL is the public address of key
func (b *BlobService) URL(key string) string {
	return b.config.baseURL() + "/" + key
}
