package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultMemoryEntries bounds a MemoryStore created with a non-positive size.
const DefaultMemoryEntries = 1024

// MemoryStore is an in-process Store with least-recently-used eviction.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewMemoryStore creates a MemoryStore holding at most maxEntries entries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	s := &MemoryStore{cache: lru.New(maxEntries)}
	s.cache.OnEvicted = func(_ lru.Key, value interface{}) {
		if entry, ok := value.(*Entry); ok {
			CacheSize.WithLabelValues(layerMemory).Sub(float64(len(entry.Data)))
		}
	}
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key Key) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.cache.Get(key.StorageKey())
	if !ok {
		CacheMisses.WithLabelValues(layerMemory).Inc()
		return nil, ErrCacheMiss
	}

	entry := value.(*Entry)
	if entry.IsExpired() {
		s.cache.Remove(key.StorageKey())
		CacheMisses.WithLabelValues(layerMemory).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(layerMemory).Inc()
	return copyEntry(entry), nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if entry.TTL() <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replacing an entry does not fire OnEvicted
	if old, ok := s.cache.Get(key.StorageKey()); ok {
		CacheSize.WithLabelValues(layerMemory).Sub(float64(len(old.(*Entry).Data)))
	}
	s.cache.Add(key.StorageKey(), copyEntry(entry))

	CacheWrites.WithLabelValues(layerMemory).Inc()
	CacheSize.WithLabelValues(layerMemory).Add(float64(len(entry.Data)))
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(key.StorageKey())
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// evicted.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

func copyEntry(e *Entry) *Entry {
	out := *e
	out.Data = append([]byte(nil), e.Data...)
	return &out
}

var _ Store = (*MemoryStore)(nil)
