package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeyPrefix namespaces every cache entry in a shared store.
const KeyPrefix = "vimeo:cache:"

// Key identifies a cached API payload by request identity.
type Key struct {
	// Method is the HTTP method (e.g., "GET")
	Method string

	// Path is the API path without query string (e.g., "/me/videos")
	Path string

	// Params are the query or body parameters, including any query string
	// that was part of the request path
	Params url.Values
}

// NewKey builds a Key for a request. A query string embedded in path is
// merged into params; keys present in the path query take precedence, which
// mirrors how the transport sends the request.
func NewKey(method, path string, params url.Values) Key {
	merged := url.Values{}
	for k, v := range params {
		merged[k] = append([]string(nil), v...)
	}

	if i := strings.IndexByte(path, '?'); i >= 0 {
		if query, err := url.ParseQuery(path[i+1:]); err == nil {
			for k, v := range query {
				merged[k] = v
			}
		}
		path = path[:i]
	}

	return Key{
		Method: strings.ToUpper(method),
		Path:   path,
		Params: merged,
	}
}

// String generates a deterministic, human-readable key.
// Format: METHOD:path:param1=val1:param2=val2a,val2b
// Parameter names and values are query-escaped, so ":", "," and "=" inside
// them cannot be confused with separators.
//
// Example:
//
//	GET:me/videos:page=2:per_page=25
func (k Key) String() string {
	parts := []string{k.Method}

	if path := strings.Trim(k.Path, "/"); path != "" {
		parts = append(parts, pathEscaper.Replace(path))
	}

	// Sorted for determinism
	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := make([]string, len(k.Params[name]))
			for i, v := range k.Params[name] {
				values[i] = url.QueryEscape(v)
			}
			parts = append(parts, fmt.Sprintf("%s=%s", url.QueryEscape(name), strings.Join(values, ",")))
		}
	}

	return strings.Join(parts, ":")
}

// pathEscaper keeps the separator out of the path segment.
var pathEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// Hash returns a stable 64-bit hash of the key.
func (k Key) Hash() uint64 {
	return xxhash.Sum64String(k.String())
}

// StorageKey returns the key under which the entry is stored.
func (k Key) StorageKey() string {
	return KeyPrefix + strconv.FormatUint(k.Hash(), 16)
}
