// Package blob provides key-addressed byte storage for media files, backed
// either by a local directory or by an S3-compatible object store.
package blob

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/and161185/regolith/internal/errs"
)

// Store fetches and stores blobs by key. Both implementations report a
// missing key as errs.ErrNotFound.
type Store interface {
	// Fetch returns the bytes stored under key.
	Fetch(ctx context.Context, key string) ([]byte, error)
	// Put stores data under key and returns the key it was stored under.
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// Backend names accepted by New.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Config selects and configures a Store implementation.
type Config struct {
	Backend   string
	MediaRoot string
	S3        S3Config
}

// New builds the Store named by cfg.Backend.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFS, "":
		return NewFS(cfg.MediaRoot)
	case BackendS3:
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// cleanKey normalizes key to a slash-separated relative path and rejects
// keys that are empty or would escape the store's root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, 0) || strings.Contains(key, "\\") {
		return "", fmt.Errorf("key %q: %w", key, errs.ErrValidation)
	}
	k := path.Clean(strings.TrimPrefix(key, "/"))
	if k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("key %q: %w", key, errs.ErrValidation)
	}
	return k, nil
}
