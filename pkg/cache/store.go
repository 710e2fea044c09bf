package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store persists raw payloads keyed by request identity.
// Implementations must tolerate concurrent reads and writes; the last write
// for a key wins.
type Store interface {
	// Get returns the entry for key, or ErrCacheMiss.
	Get(ctx context.Context, key Key) (*Entry, error)

	// Set stores entry under key until entry expires.
	Set(ctx context.Context, key Key, entry *Entry) error

	// Delete removes the entry for key.
	Delete(ctx context.Context, key Key) error
}
