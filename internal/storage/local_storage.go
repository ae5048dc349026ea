package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vestiaire/internal/config"
	"vestiaire/internal/vtypes"

	"github.com/google/uuid"
)

// LocalStorageService implements vtypes.StorageService on the local
// filesystem, with HMAC-signed expiring access URLs.
type LocalStorageService struct {
	basePath    string
	baseURL     string
	signSecret  []byte
	maxFileSize int64
}

// NewLocalStorageService creates a new LocalStorageService.
func NewLocalStorageService(cfg config.StorageConfig) (*LocalStorageService, error) {
	if err := os.MkdirAll(cfg.LocalPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", cfg.LocalPath, err)
	}
	if cfg.URLSigningSecret == "" {
		return nil, fmt.Errorf("storage URL signing secret is empty")
	}
	return &LocalStorageService{
		basePath:    cfg.LocalPath,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		signSecret:  []byte(cfg.URLSigningSecret),
		maxFileSize: cfg.MaxFileSizeMB * 1024 * 1024,
	}, nil
}

// UploadFile saves the content under a fresh uuid-based key.
func (s *LocalStorageService) UploadFile(ctx context.Context, reader io.Reader, fileSize int64, fileName string, mimeType string) (*vtypes.FileInfo, error) {
	if s.maxFileSize > 0 && fileSize > s.maxFileSize {
		return nil, fmt.Errorf("file size %d exceeds the %d byte limit", fileSize, s.maxFileSize)
	}

	ext := filepath.Ext(fileName)
	if ext == "" {
		extensions, _ := mime.ExtensionsByType(mimeType)
		if len(extensions) > 0 {
			ext = extensions[0]
		}
	}
	key := uuid.New().String() + ext

	dstPath := filepath.Join(s.basePath, key)
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file '%s': %w", dstPath, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, reader)
	if err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written != fileSize {
		os.Remove(dstPath)
		return nil, fmt.Errorf("file size mismatch: expected %d, wrote %d", fileSize, written)
	}

	return &vtypes.FileInfo{
		Key:      key,
		Size:     fileSize,
		MimeType: mimeType,
		FileName: fileName,
	}, nil
}

// SignedURL builds an expiring URL for a stored key. It is a pure
// computation: no filesystem access, so the feed can sign per row cheaply.
func (s *LocalStorageService) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	exp := time.Now().Add(expiry).Unix()
	sig := s.sign(key, exp)
	return fmt.Sprintf("%s/%s?exp=%d&sig=%s", s.baseURL, url.PathEscape(key), exp, sig), nil
}

// DeleteFile removes a stored object by key.
func (s *LocalStorageService) DeleteFile(ctx context.Context, key string) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("invalid storage key: %q", key)
	}
	return os.Remove(filepath.Join(s.basePath, key))
}

// VerifySignedRequest checks the exp/sig query values issued by SignedURL
// and returns the local path of the object when valid.
func (s *LocalStorageService) VerifySignedRequest(key, expStr, sig string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid expiry: %w", err)
	}
	if time.Now().Unix() > exp {
		return "", fmt.Errorf("signed URL expired")
	}
	if !hmac.Equal([]byte(s.sign(key, exp)), []byte(sig)) {
		return "", fmt.Errorf("signature mismatch")
	}
	return filepath.Join(s.basePath, key), nil
}

func (s *LocalStorageService) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.signSecret)
	fmt.Fprintf(mac, "%s:%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
