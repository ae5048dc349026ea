// internal/vtypes/storage_service_iface.go
package vtypes

import (
	"context"
	"io"
	"time"
)

// StorageService defines file storage operations.
// The interface lives in vtypes to break the cycle between storage and services.
type StorageService interface {
	// UploadFile stores the reader's content and returns its FileInfo,
	// including the storage key used for later lookups.
	UploadFile(ctx context.Context, reader io.Reader, fileSize int64, fileName string, mimeType string) (*FileInfo, error)

	// SignedURL returns a time-limited access URL for a previously stored
	// object key. Implementations must not dereference the key on disk;
	// signing is a pure computation so callers can batch it cheaply.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// DeleteFile removes a stored object by key.
	DeleteFile(ctx context.Context, key string) error
}
