package storage

import (
	"context"
)

// BlobStore persists uploaded file artifacts (verification documents, roster
// CSVs) and serves them back by key. Put failures must propagate to the
// caller: the record update that references the artifact only happens after
// the bytes are durably stored.
type BlobStore interface {
	// Put stores data under a freshly generated key and returns the key and
	// the public URL of the artifact.
	Put(ctx context.Context, prefix, filename, contentType string, data []byte) (key string, url string, err error)

	// Get reads a previously stored artifact by key.
	Get(ctx context.Context, key string) ([]byte, error)
}
