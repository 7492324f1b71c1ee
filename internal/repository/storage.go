package repository

import (
	"context"
	"io"
	"time"
)

// StorageRepository stores uploaded file content. Upload returns the
// content locator for the stored object.
type StorageRepository interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
