// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Service is attached to every log line of the process logger.
const Service = "vimeo-client"

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output. Unknown levels fall back to info.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", Service).
		Logger()

	log.Logger = logger

	if err != nil {
		logger.Warn().Str("requested_level", string(cfg.Level)).Msg("Unknown log level, using info")
	}
	return logger
}

// ParseLevel converts a level name to a zerolog.Level. "warning" is
// accepted as an alias of warn.
func ParseLevel(level LogLevel) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(string(level))) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, TTL)
//   - Dispatch flow (policy, source of each delivery)
//   - Internal state changes
//
// Info: Normal operation events
//   - Rate limit state updates (healthy)
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Rate limit warnings (throttling active)
//   - Retry attempts
//   - Cache errors (dispatch continues without the cache)
//   - Stale cache payloads that no longer map
//
// Error: Error conditions requiring attention
//   - Failed dispatches (transport, malformed payload, mapping)
//   - Critical rate limit blocks
//   - Configuration errors
//
// Context Fields:
//   - request_id: Dispatch ID, also sent as X-Request-Id
//   - endpoint: Vimeo endpoint path
//   - policy: Cache fetch policy of the request
//   - source: Delivery source (network, cache)
//   - status_code: HTTP status code
//   - duration: Request duration
//   - error_class: Transport error classification (client, server, rate_limit, network)
//   - error_kind: Dispatch error kind (malformed_response, mapping_failed, transport_error, no_mapping_class)
//   - remaining: Requests remaining in the Vimeo rate limit window
//   - cache_key: Canonical cache key of the request
//   - ttl: Cache entry TTL
