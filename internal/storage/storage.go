package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a slot has never been written or has
// been deleted.
var ErrNotFound = errors.New("storage slot not found")

// Store is a persistent key-value slot store.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Timestamper is implemented by stores that record when each slot was last
// written.
type Timestamper interface {
	// UpdatedAt returns when key was last written, or ErrNotFound.
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}
