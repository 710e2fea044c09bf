package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/vimeo-client/pkg/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("VIMEO_BASE_URL", "http://localhost:9999")
	t.Setenv("VIMEO_ACCESS_TOKEN", "secret")
	t.Setenv("VIMEO_TIMEOUT", "5s")
	t.Setenv("VIMEO_RATE_LIMIT_RPS", "2.5")
	t.Setenv("VIMEO_MAX_RETRIES", "3")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("CACHE_MEMORY_ENTRIES", "50")
	t.Setenv("CACHE_SUPPRESS_UNCHANGED", "true")
	t.Setenv("PAGINATION_NEXT_KEY_PATH", "links.next")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Vimeo.BaseURL)
	assert.Equal(t, "secret", cfg.Vimeo.AccessToken)
	assert.Equal(t, 5*time.Second, cfg.Vimeo.Timeout)
	assert.Equal(t, 2.5, cfg.Vimeo.RateLimit)
	assert.Equal(t, 3, cfg.Vimeo.MaxRetries)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 50, cfg.Cache.MemoryEntries)
	assert.True(t, cfg.Cache.SuppressUnchanged)
	assert.Equal(t, "links.next", cfg.Pagination.NextKeyPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unparsable value", func(t *testing.T) {
		t.Setenv("VIMEO_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "disk")
		_, err := Load()
		assert.ErrorContains(t, err, "CACHE_BACKEND")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "memory backend", mutate: func(c *Config) { c.Cache.Backend = BackendMemory }},
		{name: "empty base URL", mutate: func(c *Config) { c.Vimeo.BaseURL = "" }, wantErr: "VIMEO_BASE_URL"},
		{name: "zero timeout", mutate: func(c *Config) { c.Vimeo.Timeout = 0 }, wantErr: "VIMEO_TIMEOUT"},
		{name: "negative rate", mutate: func(c *Config) { c.Vimeo.RateLimit = -1 }, wantErr: "VIMEO_RATE_LIMIT_RPS"},
		{name: "negative retries", mutate: func(c *Config) { c.Vimeo.MaxRetries = -1 }, wantErr: "VIMEO_MAX_RETRIES"},
		{name: "redis without URL", mutate: func(c *Config) { c.Redis.URL = "" }, wantErr: "REDIS_URL"},
		{
			name: "memory without entries",
			mutate: func(c *Config) {
				c.Cache.Backend = BackendMemory
				c.Cache.MemoryEntries = 0
			},
			wantErr: "CACHE_MEMORY_ENTRIES",
		},
		{name: "negative TTL", mutate: func(c *Config) { c.Cache.TTL = -time.Second }, wantErr: "CACHE_TTL"},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "LOG_LEVEL"},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Vimeo.BaseURL = ""
	cfg.Server.Port = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "VIMEO_BASE_URL")
	assert.ErrorContains(t, err, "PORT")
}

func TestTransportConfig(t *testing.T) {
	cfg := Default()
	cfg.Vimeo.AccessToken = "token"
	cfg.Vimeo.RateLimit = 4
	cfg.Vimeo.MaxRetries = 2

	tc := cfg.TransportConfig()
	assert.Equal(t, "token", tc.AccessToken)
	assert.Equal(t, cfg.Vimeo.BaseURL, tc.BaseURL)
	assert.Equal(t, 4.0, tc.RateLimit)
	assert.Equal(t, 2, tc.MaxRetries)
	assert.Nil(t, tc.Tracker)
}

func TestRedisOptions(t *testing.T) {
	cfg := Default()

	opts, err := cfg.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	cfg.Redis.URL = "redis://:pw@cache:6380/2"
	opts, err = cfg.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	cfg.Redis.URL = "redis://cache:6379/notadb"
	_, err = cfg.RedisOptions()
	assert.Error(t, err)
}

func TestLoggingConfig(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.Pretty = true

	lc := cfg.LoggingConfig()
	assert.Equal(t, logging.LogLevel("warn"), lc.Level)
	assert.True(t, lc.Pretty)
	assert.NotNil(t, lc.Output)
}
