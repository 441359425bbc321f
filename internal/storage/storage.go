// Package storage provides the persistent string key-value store backing
// the reading-state repositories. One logical namespace, no transactions:
// each repository owns a single fixed key and rewrites its whole value.
package storage

import "context"

// KeyValue is the persistence contract used by the stores. All operations
// block until the underlying read or write completes.
type KeyValue interface {
	// Get returns the value for key. The second return is false when the
	// key has never been written (or was deleted), which is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	Close() error
}
