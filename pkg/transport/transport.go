// Package transport performs the HTTP calls behind a dispatched request.
//
// The client sees only the Transport interface. HTTP is the production
// adapter, built on resty with bearer-token auth, client-side request rate
// limiting and Vimeo quota tracking.
package transport

import (
	"context"
	"net/http"

	"github.com/Sternrassler/vimeo-client/pkg/request"
)

// Call is one HTTP call to perform.
type Call struct {
	Method     request.Method
	Path       string
	Parameters request.Parameters
}

// Payload is a successful raw response.
type Payload struct {
	Body       []byte
	Header     http.Header
	StatusCode int
}

// Transport performs calls. Implementations must be safe for concurrent use,
// must return errors instead of panicking and should abort when ctx is done.
type Transport interface {
	Perform(ctx context.Context, call Call) (*Payload, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, call Call) (*Payload, error)

// Perform implements Transport.
func (f Func) Perform(ctx context.Context, call Call) (*Payload, error) {
	return f(ctx, call)
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id as the X-Request-Id of calls
// performed with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
