package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is the fallback TTL when the response carries no freshness headers
	DefaultTTL = 24 * time.Hour
)

// NewEntry builds an Entry for a raw payload. The expiry comes from the
// response's Cache-Control max-age or Expires header, or fallback when
// neither is usable. A non-positive fallback means DefaultTTL.
func NewEntry(data []byte, statusCode int, headers http.Header, fallback time.Duration) *Entry {
	if fallback <= 0 {
		fallback = DefaultTTL
	}

	now := time.Now()
	return &Entry{
		Data:       append([]byte(nil), data...),
		Expires:    parseExpires(headers, now, fallback),
		StatusCode: statusCode,
		CachedAt:   now,
	}
}

// parseExpires derives the expiration time from HTTP headers.
// Cache-Control max-age wins over Expires; no-store and no-cache are ignored
// because the caller asked for the payload to be cached explicitly.
func parseExpires(headers http.Header, now time.Time, fallback time.Duration) time.Time {
	if maxAge, ok := parseMaxAge(headers.Get("Cache-Control")); ok && maxAge > 0 {
		return now.Add(maxAge)
	}

	expiresStr := headers.Get("Expires")
	if expiresStr == "" {
		return now.Add(fallback)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return now.Add(fallback)
	}

	// Past Expires means the origin considers the payload stale already.
	// Keep it for the fallback so cache-only reads still work.
	if expires.Before(now) {
		return now.Add(fallback)
	}

	return expires
}

func parseMaxAge(cacheControl string) (time.Duration, bool) {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(strings.ToLower(directive))
		value, ok := strings.CutPrefix(directive, "max-age=")
		if !ok {
			continue
		}
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}
