package client

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/vimeo-client/pkg/cache"
	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/request"
	"github.com/Sternrassler/vimeo-client/pkg/transport"
)

type video struct {
	Name string `json:"name"`
	URI  string `json:"uri,omitempty"`
}

func (video) ModelKeyPath() string { return "" }

type profile struct {
	Name string `json:"name"`
}

func (profile) ModelKeyPath() string { return "user" }

// plain has no mapping descriptor.
type plain struct {
	Name string `json:"name"`
}

type scriptedResponse struct {
	body   string
	header http.Header
	err    error
}

// scriptedTransport answers calls from per-path scripts and records them.
// The last scripted response of a path repeats.
type scriptedTransport struct {
	mu        sync.Mutex
	responses map[string][]scriptedResponse
	calls     []transport.Call
	ids       []string

	// block, when set, holds every call until it is closed or ctx is done.
	block chan struct{}
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{responses: make(map[string][]scriptedResponse)}
}

func (s *scriptedTransport) respond(path, body string) *scriptedTransport {
	return s.respondWith(path, scriptedResponse{body: body})
}

func (s *scriptedTransport) fail(path string, err error) *scriptedTransport {
	return s.respondWith(path, scriptedResponse{err: err})
}

func (s *scriptedTransport) respondWith(path string, r scriptedResponse) *scriptedTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = append(s.responses[path], r)
	return s
}

func (s *scriptedTransport) Perform(ctx context.Context, call transport.Call) (*transport.Payload, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	id, _ := transport.RequestIDFromContext(ctx)
	s.ids = append(s.ids, id)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &transport.Error{ErrorClass: transport.ErrorClassNetwork, Message: "request failed", Err: ctx.Err()}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.responses[call.Path]
	if len(queue) == 0 {
		return nil, &transport.Error{StatusCode: http.StatusNotFound, ErrorClass: transport.ErrorClassClient, Message: "not found"}
	}
	r := queue[0]
	if len(queue) > 1 {
		s.responses[call.Path] = queue[1:]
	}

	if r.err != nil {
		return nil, r.err
	}
	header := r.header
	if header == nil {
		header = http.Header{}
	}
	return &transport.Payload{Body: []byte(r.body), Header: header, StatusCode: http.StatusOK}, nil
}

func (s *scriptedTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedTransport) lastCall() transport.Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

// recordingStore counts store operations and can inject failures.
type recordingStore struct {
	inner *cache.MemoryStore

	mu     sync.Mutex
	gets   int
	sets   int
	getErr error
	setErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{inner: cache.NewMemoryStore(64)}
}

func (s *recordingStore) Get(ctx context.Context, key cache.Key) (*cache.Entry, error) {
	s.mu.Lock()
	s.gets++
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.inner.Get(ctx, key)
}

func (s *recordingStore) Set(ctx context.Context, key cache.Key, entry *cache.Entry) error {
	s.mu.Lock()
	s.sets++
	err := s.setErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, entry)
}

func (s *recordingStore) Delete(ctx context.Context, key cache.Key) error {
	return s.inner.Delete(ctx, key)
}

func (s *recordingStore) counts() (gets, sets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.sets
}

// seed stores body as the cached payload of req.
func seed[T any](t *testing.T, s *recordingStore, req request.Request[T], body string) {
	t.Helper()
	err := s.inner.Set(context.Background(), cacheKey(req), &cache.Entry{
		Data:     []byte(body),
		Expires:  time.Now().Add(time.Hour),
		CachedAt: time.Now(),
	})
	require.NoError(t, err)
}

func newTestClient(t *testing.T, tr transport.Transport, store cache.Store, mutate ...func(*Config)) *Client {
	t.Helper()

	table := mapping.NewTable()
	mapping.Register[video](table)
	mapping.Register[profile](table)

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	cfg := DefaultConfig(tr, store, table)
	cfg.Logger = &logger
	for _, m := range mutate {
		m(&cfg)
	}

	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

// collect drains a task with a timeout.
func collect[T any](t *testing.T, task *Task[T]) []Result[T] {
	t.Helper()

	var results []Result[T]
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r, ok := <-task.Results():
			if !ok {
				return results
			}
			results = append(results, r)
		case <-timeout:
			t.Fatal("task did not finish")
			return nil
		}
	}
}
