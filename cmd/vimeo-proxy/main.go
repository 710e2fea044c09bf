package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/vimeo-client/pkg/cache"
	"github.com/Sternrassler/vimeo-client/pkg/client"
	"github.com/Sternrassler/vimeo-client/pkg/config"
	"github.com/Sternrassler/vimeo-client/pkg/logging"
	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/models"
	"github.com/Sternrassler/vimeo-client/pkg/ratelimit"
	"github.com/Sternrassler/vimeo-client/pkg/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LoggingConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	vimeoClient, cleanup, err := buildClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newServer(vimeoClient, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("base_url", cfg.Vimeo.BaseURL).
			Str("cache_backend", cfg.Cache.Backend).
			Msg("Starting Vimeo proxy server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildClient wires the client from cfg. The returned cleanup releases the
// Redis connection when one was opened.
func buildClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*client.Client, func(), error) {
	cleanup := func() {}

	var (
		store       cache.Store
		redisClient *redis.Client
	)
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		opts, err := cfg.RedisOptions()
		if err != nil {
			return nil, nil, err
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")

		store = cache.NewManager(redisClient)
		cleanup = func() { redisClient.Close() }
	default:
		store = cache.NewMemoryStore(cfg.Cache.MemoryEntries)
	}

	transportLogger := logging.NewLogger("transport")
	tcfg := cfg.TransportConfig()
	tcfg.Tracker = ratelimit.NewTracker(redisClient, logging.NewLogger("ratelimit"))
	tcfg.Logger = &transportLogger

	tr, err := transport.NewHTTP(tcfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create transport: %w", err)
	}

	table := mapping.NewTable()
	models.Register(table)

	clientLogger := logging.NewLogger("client")
	ccfg := client.DefaultConfig(tr, store, table)
	ccfg.CacheTTL = cfg.Cache.TTL
	ccfg.SuppressUnchanged = cfg.Cache.SuppressUnchanged
	ccfg.Chainer.NextKeyPath = cfg.Pagination.NextKeyPath
	ccfg.Logger = &clientLogger

	c, err := client.New(ccfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, cleanup, nil
}
