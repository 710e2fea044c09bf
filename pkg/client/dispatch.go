package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/vimeo-client/pkg/cache"
	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/pagination"
	"github.com/Sternrassler/vimeo-client/pkg/request"
	"github.com/Sternrassler/vimeo-client/pkg/transport"
)

// Dispatch starts req and returns its task immediately.
//
// The task delivers one result, or two for CacheThenNetwork when the cache
// holds a mappable payload (the cached one first). Dispatch panics when req
// is invalid or T has no mapping descriptor at all; both are programming
// errors.
func Dispatch[T any](c *Client, ctx context.Context, req request.Request[T]) *Task[T] {
	if err := req.Validate(); err != nil {
		panic(fmt.Sprintf("client: %v", err))
	}

	descriptor, lookupErr := mapping.Lookup[T](c.table)
	if errors.Is(lookupErr, mapping.ErrNotMappable) {
		panic(fmt.Sprintf("client: %v", lookupErr))
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(transport.WithRequestID(ctx, id))
	task := newTask[T](id, cancel)

	d := &dispatcher[T]{
		client:     c,
		req:        req,
		task:       task,
		descriptor: descriptor,
		lookupErr:  lookupErr,
		key:        cacheKey(req),
		logger: c.logger.With().
			Str("request_id", id).
			Str("method", string(req.Method())).
			Str("endpoint", req.Path()).
			Str("policy", string(req.CacheFetchPolicy())).
			Logger(),
	}

	go func() {
		defer task.finish()
		defer cancel()
		d.run(ctx)
	}()

	return task
}

// Fetch dispatches req and waits for its final result.
func Fetch[T any](c *Client, ctx context.Context, req request.Request[T]) Result[T] {
	task := Dispatch(c, ctx, req)

	var (
		last      Result[T]
		delivered bool
	)
	for r := range task.Results() {
		last, delivered = r, true
	}

	if !delivered {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		return Failure[T](newError(KindTransport, "dispatch cancelled", err))
	}
	return last
}

// Invalidate removes the cached payload of req.
func Invalidate[T any](c *Client, ctx context.Context, req request.Request[T]) error {
	if c.store == nil {
		return nil
	}
	key := cacheKey(req)
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %s: %w", key, err)
	}
	return nil
}

func cacheKey[T any](req request.Request[T]) cache.Key {
	return cache.NewKey(string(req.Method()), req.Path(), req.Parameters().Values())
}

// dispatcher runs one dispatch.
type dispatcher[T any] struct {
	client     *Client
	req        request.Request[T]
	task       *Task[T]
	descriptor mapping.Descriptor
	lookupErr  error
	key        cache.Key
	logger     zerolog.Logger
}

func (d *dispatcher[T]) run(ctx context.Context) {
	policy := d.req.CacheFetchPolicy()
	vimeoDispatchesTotal.WithLabelValues(string(policy)).Inc()

	startTime := time.Now()
	defer func() {
		vimeoDispatchDuration.WithLabelValues(string(policy)).Observe(time.Since(startTime).Seconds())
	}()

	d.logger.Debug().Str("cache_key", d.key.String()).Msg("Dispatching request")

	switch policy {
	case request.CacheOnly:
		d.cacheOnly(ctx)
	case request.NetworkOnly:
		result, _ := d.network(ctx)
		d.deliver(result)
	case request.CacheThenNetwork:
		d.cacheThenNetwork(ctx)
	default:
		d.tryNetworkThenCache(ctx)
	}
}

func (d *dispatcher[T]) cacheOnly(ctx context.Context) {
	entry, ok := d.readCache(ctx)
	if !ok {
		d.deliver(Failure[T](newError(KindMalformedResponse, "no cached response", cache.ErrCacheMiss)))
		return
	}
	d.deliver(d.process(entry.Data, SourceCache))
}

func (d *dispatcher[T]) cacheThenNetwork(ctx context.Context) {
	var cached []byte
	if entry, ok := d.readCache(ctx); ok {
		result := d.process(entry.Data, SourceCache)
		if result.IsSuccess() {
			d.deliver(result)
			cached = entry.Data
		} else {
			// The network result follows, so an unusable cache entry is dropped
			d.logger.Warn().
				Err(result.Err()).
				Str("cache_key", d.key.String()).
				Msg("Dropping unmappable cached response")
		}
	}

	result, body := d.network(ctx)
	if d.client.suppressUnchanged && cached != nil && result.IsSuccess() && bytes.Equal(cached, body) {
		d.logger.Debug().Msg("Network response unchanged, delivery suppressed")
		return
	}
	d.deliver(result)
}

func (d *dispatcher[T]) tryNetworkThenCache(ctx context.Context) {
	result, _ := d.network(ctx)
	if result.IsSuccess() || result.Err().Kind != KindTransport || ctx.Err() != nil {
		d.deliver(result)
		return
	}

	entry, ok := d.readCache(ctx)
	if !ok {
		d.deliver(result)
		return
	}

	cached := d.process(entry.Data, SourceCache)
	if !cached.IsSuccess() {
		d.logger.Warn().Err(cached.Err()).Msg("Cached fallback is unmappable")
		d.deliver(result)
		return
	}

	d.logger.Info().
		Err(result.Err()).
		Msg("Network failed, delivering cached response")
	d.deliver(cached)
}

// network performs the transport call and maps its payload. It returns the
// raw body of a successful call alongside the result.
func (d *dispatcher[T]) network(ctx context.Context) (Result[T], []byte) {
	payload, err := d.client.transport.Perform(ctx, transport.Call{
		Method:     d.req.Method(),
		Path:       d.req.Path(),
		Parameters: d.req.Parameters(),
	})
	if err != nil {
		return Failure[T](transportError(err)), nil
	}
	if payload == nil {
		return Failure[T](newError(KindMalformedResponse, "empty payload", nil)), nil
	}

	result := d.process(payload.Body, SourceNetwork)
	if result.IsSuccess() && d.req.ShouldCacheResponse() {
		d.writeCache(ctx, payload)
	}
	return result, payload.Body
}

// process turns a raw payload into a Result.
func (d *dispatcher[T]) process(body []byte, source Source) Result[T] {
	decoded, err := d.client.deserializer.Decode(body)
	if err != nil {
		return Failure[T](newError(KindMalformedResponse, "payload is not valid JSON", err))
	}

	payload, ok := decoded.(map[string]any)
	if !ok {
		return Failure[T](newError(KindMalformedResponse, "payload is not a JSON object", nil))
	}

	if d.lookupErr != nil {
		return Failure[T](newError(KindNoMappingClass, "cannot resolve mapping class", d.lookupErr))
	}

	keyPath := d.descriptor.KeyPath
	if override, ok := d.req.ModelKeyPath(); ok {
		keyPath = override
	}

	value, err := d.client.deserializer.Map(payload, d.descriptor.Target, keyPath)
	if err != nil {
		return Failure[T](newError(KindMappingFailed, fmt.Sprintf("cannot map %s", d.descriptor.Target.Name), err))
	}

	model, ok := value.(T)
	if !ok {
		return Failure[T](newError(KindMappingFailed,
			fmt.Sprintf("mapped value %T is not %s", value, d.descriptor.Target.Name), nil))
	}

	return Success(Response[T]{
		Model:           model,
		NextPageRequest: nextPage(d.client.chainer, payload, d.req),
		Source:          source,
	})
}

func nextPage[T any](ch pagination.Chainer, payload map[string]any, req request.Request[T]) *request.Request[T] {
	next, ok := pagination.Next(ch, payload, req)
	if !ok {
		return nil
	}
	return next
}

// readCache returns the cached entry. Store errors count as misses.
func (d *dispatcher[T]) readCache(ctx context.Context) (*cache.Entry, bool) {
	if d.client.store == nil {
		return nil, false
	}

	entry, err := d.client.store.Get(ctx, d.key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			d.logger.Warn().Err(err).Str("cache_key", d.key.String()).Msg("Cache get error")
		}
		return nil, false
	}

	d.logger.Debug().
		Str("cache_key", d.key.String()).
		Dur("age", entry.Age()).
		Msg("Cache hit")
	return entry, true
}

// writeCache stores a payload. Failures are logged and never fail the dispatch.
func (d *dispatcher[T]) writeCache(ctx context.Context, payload *transport.Payload) {
	if d.client.store == nil {
		return
	}

	entry := cache.NewEntry(payload.Body, payload.StatusCode, payload.Header, d.client.cacheTTL)
	if err := d.client.store.Set(ctx, d.key, entry); err != nil {
		d.logger.Warn().Err(err).Str("cache_key", d.key.String()).Msg("Failed to cache response")
		return
	}

	d.logger.Debug().
		Str("cache_key", d.key.String()).
		Dur("ttl", entry.TTL()).
		Msg("Cached response")
}

func (d *dispatcher[T]) deliver(r Result[T]) {
	if !d.task.deliver(r) {
		d.logger.Debug().Msg("Task cancelled, result dropped")
		return
	}

	if resp, ok := r.Response(); ok {
		vimeoDeliveriesTotal.WithLabelValues(string(resp.Source)).Inc()
		d.logger.Debug().Str("source", string(resp.Source)).Msg("Delivered response")
		return
	}

	err := r.Err()
	vimeoDispatchErrorsTotal.WithLabelValues(string(err.Kind)).Inc()
	d.logger.Warn().
		Err(err).
		Str("error_kind", string(err.Kind)).
		Int("status_code", err.StatusCode).
		Msg("Delivered failure")
}
