package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FilesystemStore is a BlobStore backed by a local directory. It stands in
// for an object store behind the same port; keys are opaque and URL-safe.
type FilesystemStore struct {
	baseDir string
	baseURL string
}

// NewFilesystemStore creates the base directory if needed.
func NewFilesystemStore(baseDir, baseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &FilesystemStore{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Put implements BlobStore.
func (s *FilesystemStore) Put(ctx context.Context, prefix, filename, contentType string, data []byte) (string, string, error) {
	ext := path.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)

	dst := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write blob: %w", err)
	}

	return key, fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Get implements BlobStore.
func (s *FilesystemStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

var _ BlobStore = (*FilesystemStore)(nil)
