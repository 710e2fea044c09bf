// Package config loads the proxy configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/vimeo-client/pkg/cache"
	"github.com/Sternrassler/vimeo-client/pkg/logging"
	"github.com/Sternrassler/vimeo-client/pkg/pagination"
	"github.com/Sternrassler/vimeo-client/pkg/transport"
)

// Cache backends.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	Vimeo      VimeoConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Pagination PaginationConfig
	Logging    LogConfig
	Server     ServerConfig
}

// VimeoConfig holds API transport configuration.
type VimeoConfig struct {
	BaseURL     string        `envconfig:"VIMEO_BASE_URL" default:"https://api.vimeo.com"`
	AccessToken string        `envconfig:"VIMEO_ACCESS_TOKEN"`
	UserAgent   string        `envconfig:"VIMEO_USER_AGENT" default:"vimeo-client/1.0"`
	APIVersion  string        `envconfig:"VIMEO_API_VERSION" default:"3.4"`
	Timeout     time.Duration `envconfig:"VIMEO_TIMEOUT" default:"30s"`
	RateLimit   float64       `envconfig:"VIMEO_RATE_LIMIT_RPS" default:"0"`
	MaxRetries  int           `envconfig:"VIMEO_MAX_RETRIES" default:"0"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// URL is a host:port address or a redis:// URL.
	URL string `envconfig:"REDIS_URL" default:"localhost:6379"`
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	Backend           string        `envconfig:"CACHE_BACKEND" default:"redis"`
	TTL               time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	MemoryEntries     int           `envconfig:"CACHE_MEMORY_ENTRIES" default:"1000"`
	SuppressUnchanged bool          `envconfig:"CACHE_SUPPRESS_UNCHANGED" default:"false"`
}

// PaginationConfig holds paging envelope configuration.
type PaginationConfig struct {
	NextKeyPath string `envconfig:"PAGINATION_NEXT_KEY_PATH" default:"paging.next"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Vimeo: VimeoConfig{
			BaseURL:    transport.DefaultBaseURL,
			UserAgent:  transport.DefaultUserAgent,
			APIVersion: transport.DefaultAPIVersion,
			Timeout:    transport.DefaultTimeout,
		},
		Redis: RedisConfig{
			URL: "localhost:6379",
		},
		Cache: CacheConfig{
			Backend:       BackendRedis,
			TTL:           cache.DefaultTTL,
			MemoryEntries: 1000,
		},
		Pagination: PaginationConfig{
			NextKeyPath: pagination.DefaultNextKeyPath,
		},
		Logging: LogConfig{
			Level: string(logging.LevelInfo),
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Validate checks the configuration for values the client cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Vimeo.BaseURL == "" {
		errs = append(errs, errors.New("VIMEO_BASE_URL is required"))
	}
	if c.Vimeo.Timeout <= 0 {
		errs = append(errs, errors.New("VIMEO_TIMEOUT must be positive"))
	}
	if c.Vimeo.RateLimit < 0 {
		errs = append(errs, errors.New("VIMEO_RATE_LIMIT_RPS must not be negative"))
	}
	if c.Vimeo.MaxRetries < 0 {
		errs = append(errs, errors.New("VIMEO_MAX_RETRIES must not be negative"))
	}

	switch c.Cache.Backend {
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis cache backend"))
		}
	case BackendMemory:
		if c.Cache.MemoryEntries <= 0 {
			errs = append(errs, errors.New("CACHE_MEMORY_ENTRIES must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q is not one of %s, %s", c.Cache.Backend, BackendRedis, BackendMemory))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("CACHE_TTL must not be negative"))
	}

	if _, err := logging.ParseLevel(logging.LogLevel(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// TransportConfig returns the HTTP transport settings. Tracker and Logger
// are left for the caller to wire.
func (c *Config) TransportConfig() transport.Config {
	cfg := transport.DefaultConfig(c.Vimeo.AccessToken)
	cfg.BaseURL = c.Vimeo.BaseURL
	cfg.UserAgent = c.Vimeo.UserAgent
	cfg.APIVersion = c.Vimeo.APIVersion
	cfg.Timeout = c.Vimeo.Timeout
	cfg.RateLimit = c.Vimeo.RateLimit
	cfg.MaxRetries = c.Vimeo.MaxRetries
	return cfg
}

// RedisOptions parses the Redis address. Plain host:port addresses are
// accepted besides redis:// and rediss:// URLs.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if strings.HasPrefix(c.Redis.URL, "redis://") || strings.HasPrefix(c.Redis.URL, "rediss://") {
		opts, err := redis.ParseURL(c.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: c.Redis.URL}, nil
}

// LoggingConfig returns the logger settings writing to stderr.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  logging.LogLevel(c.Logging.Level),
		Pretty: c.Logging.Pretty,
		Output: os.Stderr,
	}
}
