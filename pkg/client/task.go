package client

import (
	"context"
	"sync"
)

// resultBuffer holds every delivery of one dispatch: a cache hit and a
// network result at most.
const resultBuffer = 2

// Task is the handle of an in-flight dispatch.
type Task[T any] struct {
	id      string
	results chan Result[T]
	done    chan struct{}
	cancel  context.CancelFunc

	mu        sync.Mutex
	cancelled bool
	finished  bool
}

func newTask[T any](id string, cancel context.CancelFunc) *Task[T] {
	return &Task[T]{
		id:      id,
		results: make(chan Result[T], resultBuffer),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
}

// ID returns the dispatch request ID, also sent as X-Request-Id.
func (t *Task[T]) ID() string {
	return t.id
}

// Results delivers the results in order. It is closed after the last one.
func (t *Task[T]) Results() <-chan Result[T] {
	return t.results
}

// Done is closed when the dispatch has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Cancel aborts the dispatch. No result is observable once Cancel returns:
// undelivered results are dropped and buffered ones are discarded.
func (t *Task[T]) Cancel() {
	t.cancel()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelled = true
	for {
		select {
		case _, ok := <-t.results:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Cancelled reports whether Cancel was called.
func (t *Task[T]) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// deliver queues r unless the task was cancelled.
func (t *Task[T]) deliver(r Result[T]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.finished {
		return false
	}
	t.results <- r
	return true
}

func (t *Task[T]) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return
	}
	t.finished = true
	close(t.results)
	close(t.done)
}
