package blob

import (
	"context"
	"io"
	"time"
)

// Backend stores upload objects. S3Backend is the production implementation.
type Backend interface {
	// PutObject uploads a single object to storage
	PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error)

	// DeleteObject removes an object from storage, returns true if successful
	DeleteObject(ctx context.Context, key string) (bool, error)
}

// ===================================================================================================

type PutObjectParams struct {
	Key         string
	Size        int64
	ContentType string
	Body        io.Reader
}

type PutObjectResponse struct {
	Key          string
	Version      string
	ETag         string
	Size         int64
	LastModified time.Time
}
