package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()
	key := NewKey("GET", "/configs", nil)

	entry := &Entry{Data: []byte(`{"facebook":{}}`), Expires: time.Now().Add(time.Minute)}
	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %s, want %s", got.Data, entry.Data)
	}

	// Returned entries are copies
	got.Data[0] = 'X'
	again, _ := store.Get(ctx, key)
	if again.Data[0] != '{' {
		t.Error("store entry was mutated through a returned copy")
	}
}

func TestMemoryStore_Miss(t *testing.T) {
	store := NewMemoryStore(10)
	if _, err := store.Get(context.Background(), NewKey("GET", "/me", nil)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryStore_Expired(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()
	key := NewKey("GET", "/me", nil)

	// Skipped on write
	if err := store.Set(ctx, key, &Entry{Data: []byte(`{}`), Expires: time.Now().Add(-time.Second)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}

	// Expires after write
	if err := store.Set(ctx, key, &Entry{Data: []byte(`{}`), Expires: time.Now().Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for expired entry, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", store.Len())
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		key := NewKey("GET", fmt.Sprintf("/videos/%d", i), nil)
		if err := store.Set(ctx, key, &Entry{Data: []byte(`{}`), Expires: time.Now().Add(time.Minute)}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	if _, err := store.Get(ctx, NewKey("GET", "/videos/0", nil)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("oldest entry should be evicted, got %v", err)
	}
}

func TestMemoryStore_DeleteAndNil(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()
	key := NewKey("GET", "/me", nil)

	if err := store.Set(ctx, key, nil); err == nil {
		t.Error("Set with nil entry should return error")
	}

	_ = store.Set(ctx, key, &Entry{Data: []byte(`{}`), Expires: time.Now().Add(time.Minute)})
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after Delete, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(16)
	ctx := context.Background()
	key := NewKey("GET", "/me/videos", nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := []byte(fmt.Sprintf(`{"writer":%d}`, i))
			_ = store.Set(ctx, key, &Entry{Data: data, Expires: time.Now().Add(time.Minute)})
			_, _ = store.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Data) == 0 || got.Data[0] != '{' {
		t.Errorf("corrupted entry: %s", got.Data)
	}
}
