// Package store persists rendered artifacts and generated Markdown so
// exports can be re-fetched without re-running generation.
package store

import (
	"context"
	"fmt"
)

// NotFoundError reports a missing key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: key %q not found", e.Key)
}

// Store is a key to bytes contract. Implementations must be safe for
// concurrent use.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// ArtifactKey builds the cache key for one rendered artifact: the
// Markdown hash plus the export format.
func ArtifactKey(markdownHash, format string) string {
	return markdownHash + "." + format
}
