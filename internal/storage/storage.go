package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rahanur19/youStream/internal/config"
)

// ObjectStore is the bucket the media service writes to.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType, cacheControl string) error
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Provider.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Provider {
	case config.StorageS3:
		return NewS3Store(ctx, cfg)
	case config.StorageMinio:
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// KeyFromURL strips the public URL prefix from an object URL. It reports
// false when url does not belong to the bucket.
func KeyFromURL(publicURL, url string) (string, bool) {
	prefix := strings.TrimSuffix(publicURL, "/") + "/"
	if publicURL == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i != -1 {
		key = key[:i]
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// URLForKey is the inverse of KeyFromURL.
func URLForKey(publicURL, key string) string {
	return strings.TrimSuffix(publicURL, "/") + "/" + key
}
