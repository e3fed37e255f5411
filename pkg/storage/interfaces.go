package storage

import (
	"context"
	"io"
)

// ObjectStorage is the CDN-backed store for processed images.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, src io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
