// Package client dispatches typed requests against a transport, maps the
// payloads into models and applies the cache fetch policies.
package client

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/vimeo-client/pkg/cache"
	"github.com/Sternrassler/vimeo-client/pkg/logging"
	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/pagination"
	"github.com/Sternrassler/vimeo-client/pkg/transport"
)

// Client is the Vimeo API client. It is safe for concurrent use.
type Client struct {
	transport         transport.Transport
	store             cache.Store
	table             *mapping.Table
	deserializer      mapping.Deserializer
	chainer           pagination.Chainer
	cacheTTL          time.Duration
	suppressUnchanged bool
	logger            zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Transport performs the HTTP calls (REQUIRED).
	Transport transport.Transport

	// Store holds cached payloads. Nil disables caching: cache reads miss
	// and writes are skipped.
	Store cache.Store

	// Table resolves model descriptors. Nil resolves only types that
	// implement mapping.Mappable themselves.
	Table *mapping.Table

	// Deserializer maps payloads into models (default: JSON).
	Deserializer mapping.Deserializer

	// Chainer derives next-page requests (default: "paging.next").
	Chainer pagination.Chainer

	// CacheTTL is used for cached payloads without freshness headers.
	CacheTTL time.Duration

	// SuppressUnchanged skips the network delivery of a CacheThenNetwork
	// dispatch when the network payload equals the cached one.
	SuppressUnchanged bool

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration with JSON mapping and default
// pagination over the given transport and store.
func DefaultConfig(t transport.Transport, store cache.Store, table *mapping.Table) Config {
	return Config{
		Transport:    t,
		Store:        store,
		Table:        table,
		Deserializer: mapping.NewJSONDeserializer(),
		Chainer:      pagination.NewChainer(pagination.DefaultNextKeyPath),
		CacheTTL:     cache.DefaultTTL,
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache_ttl must be >= 0 (got %s)", cfg.CacheTTL)
	}

	if cfg.Deserializer == nil {
		cfg.Deserializer = mapping.NewJSONDeserializer()
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}

	logger := logging.NewLogger("vimeo-client")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		transport:         cfg.Transport,
		store:             cfg.Store,
		table:             cfg.Table,
		deserializer:      cfg.Deserializer,
		chainer:           pagination.NewChainer(cfg.Chainer.NextKeyPath),
		cacheTTL:          cfg.CacheTTL,
		suppressUnchanged: cfg.SuppressUnchanged,
		logger:            logger,
	}, nil
}
