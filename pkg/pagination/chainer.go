package pagination

import (
	"net/url"
	"strings"

	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/request"
)

// DefaultNextKeyPath is where Vimeo places the next-page link.
const DefaultNextKeyPath = "paging.next"

// Chainer derives next-page requests from payloads.
// The zero value uses DefaultNextKeyPath.
type Chainer struct {
	// NextKeyPath is the dotted key path of the next-page link.
	NextKeyPath string
}

// NewChainer creates a Chainer reading the next link at nextKeyPath.
// An empty key path selects DefaultNextKeyPath.
func NewChainer(nextKeyPath string) Chainer {
	if nextKeyPath == "" {
		nextKeyPath = DefaultNextKeyPath
	}
	return Chainer{NextKeyPath: nextKeyPath}
}

func (c Chainer) keyPath() string {
	if c.NextKeyPath == "" {
		return DefaultNextKeyPath
	}
	return c.NextKeyPath
}

// NextPath returns the next-page path found in payload. Absent, null, empty
// and non-string links mean there is no next page.
func (c Chainer) NextPath(payload map[string]any) (string, bool) {
	node, err := mapping.Walk(payload, c.keyPath())
	if err != nil {
		return "", false
	}

	link, ok := node.(string)
	if !ok {
		return "", false
	}

	return normalizePath(link)
}

// Next returns the request for the page after req, or false on the last page.
func Next[T any](c Chainer, payload map[string]any, req request.Request[T]) (*request.Request[T], bool) {
	path, ok := c.NextPath(payload)
	if !ok {
		return nil, false
	}

	next := req.WithPath(path)
	return &next, true
}

// normalizePath turns a next link into an API path. Absolute URLs keep only
// their path and query.
func normalizePath(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}

	if strings.HasPrefix(link, "/") {
		return link, true
	}

	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return "", false
	}
	if !u.IsAbs() {
		return "/" + link, true
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, true
}
