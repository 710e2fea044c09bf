// Package request declares immutable, typed descriptions of Vimeo API calls.
package request

import (
	"errors"
	"fmt"
	"strings"
)

// Method is an HTTP method supported by the API.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case GET, POST, PUT, PATCH, DELETE:
		return true
	default:
		return false
	}
}

// CacheFetchPolicy governs whether a dispatch consults the cache, the network or both.
type CacheFetchPolicy string

const (
	// TryNetworkThenCache issues the network call and reads the cache only
	// when the transport fails.
	TryNetworkThenCache CacheFetchPolicy = "try_network_then_cache"

	// NetworkOnly never reads the cache.
	NetworkOnly CacheFetchPolicy = "network_only"

	// CacheOnly never touches the network. A miss is a failure.
	CacheOnly CacheFetchPolicy = "cache_only"

	// CacheThenNetwork delivers a cache hit immediately and then the network
	// result. Callers are notified up to twice.
	CacheThenNetwork CacheFetchPolicy = "cache_then_network"
)

// DefaultPath is the path of a Request built without WithPath.
const DefaultPath = "/"

// ErrInvalidRequest is returned by Validate.
var ErrInvalidRequest = errors.New("invalid request")

// spec holds the untyped fields of a Request. Options operate on it so that a
// single Option works for every result type.
type spec struct {
	method              Method
	path                string
	parameters          Parameters
	modelKeyPath        string
	hasModelKeyPath     bool
	cacheFetchPolicy    CacheFetchPolicy
	shouldCacheResponse bool
}

// Option customizes a Request under construction.
type Option func(*spec)

// WithMethod sets the HTTP method.
func WithMethod(m Method) Option {
	return func(s *spec) { s.method = m }
}

// WithPath sets the request path. Paths may carry a query string.
func WithPath(path string) Option {
	return func(s *spec) { s.path = path }
}

// WithParameters replaces the parameters.
func WithParameters(p Parameters) Option {
	return func(s *spec) { s.parameters = p.Clone() }
}

// WithParameter appends or replaces a single parameter.
func WithParameter(key string, value any) Option {
	return func(s *spec) { s.parameters = s.parameters.With(key, value) }
}

// WithModelKeyPath overrides the result type's default key path. An empty
// key path maps the whole payload.
func WithModelKeyPath(keyPath string) Option {
	return func(s *spec) {
		s.modelKeyPath = keyPath
		s.hasModelKeyPath = true
	}
}

// WithCacheFetchPolicy sets the cache fetch policy.
func WithCacheFetchPolicy(p CacheFetchPolicy) Option {
	return func(s *spec) { s.cacheFetchPolicy = p }
}

// WithCacheResponse asks the dispatcher to store a fresh network payload.
func WithCacheResponse(cache bool) Option {
	return func(s *spec) { s.shouldCacheResponse = cache }
}

// Request describes one HTTP call whose payload decodes into T.
// A Request never changes after construction; derivations return new values.
type Request[T any] struct {
	s spec
}

// New builds a Request. Without options it is a GET of "/" with no
// parameters, the TryNetworkThenCache policy and no response caching.
func New[T any](opts ...Option) Request[T] {
	s := spec{
		method:           GET,
		path:             DefaultPath,
		cacheFetchPolicy: TryNetworkThenCache,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return Request[T]{s: s}
}

// Method returns the HTTP method.
func (r Request[T]) Method() Method { return r.s.method }

// Path returns the request path.
func (r Request[T]) Path() string { return r.s.path }

// Parameters returns a copy of the request parameters.
func (r Request[T]) Parameters() Parameters { return r.s.parameters.Clone() }

// ModelKeyPath returns the key path override and whether one was set.
func (r Request[T]) ModelKeyPath() (string, bool) {
	return r.s.modelKeyPath, r.s.hasModelKeyPath
}

// CacheFetchPolicy returns the cache fetch policy.
func (r Request[T]) CacheFetchPolicy() CacheFetchPolicy { return r.s.cacheFetchPolicy }

// ShouldCacheResponse reports whether a fresh network payload is cached.
func (r Request[T]) ShouldCacheResponse() bool { return r.s.shouldCacheResponse }

// With returns a copy of r with opts applied.
func (r Request[T]) With(opts ...Option) Request[T] {
	s := r.s
	s.parameters = r.s.parameters.Clone()
	for _, opt := range opts {
		opt(&s)
	}
	return Request[T]{s: s}
}

// WithPath returns a copy of r targeting path.
func (r Request[T]) WithPath(path string) Request[T] {
	return r.With(WithPath(path))
}

// FromCache returns the cache-only variant of r. A cache read has nothing
// fresh to store, so response caching is turned off.
func (r Request[T]) FromCache() Request[T] {
	return r.With(WithCacheFetchPolicy(CacheOnly), WithCacheResponse(false))
}

// Validate checks the request against the API contract.
func (r Request[T]) Validate() error {
	if !r.s.method.Valid() {
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, r.s.method)
	}
	if r.s.path == "" || !strings.HasPrefix(r.s.path, "/") {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidRequest, r.s.path)
	}
	switch r.s.cacheFetchPolicy {
	case TryNetworkThenCache, NetworkOnly, CacheOnly, CacheThenNetwork:
	default:
		return fmt.Errorf("%w: unknown cache fetch policy %q", ErrInvalidRequest, r.s.cacheFetchPolicy)
	}
	return nil
}

// String returns "METHOD path".
func (r Request[T]) String() string {
	return string(r.s.method) + " " + r.s.path
}
