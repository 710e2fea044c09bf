// Package testutil provides testing utilities for the Vimeo client.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

// MockVimeoResponse defines the behavior for a mock Vimeo endpoint response.
type MockVimeoResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a request received by the mock server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// MockVimeo is a configurable mock Vimeo API server for testing.
type MockVimeo struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	Requests     []RecordedRequest
}

// NewMockVimeo creates a new mock Vimeo server.
func NewMockVimeo() *MockVimeo {
	mock := &MockVimeo{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.RequestCount++
		mock.Requests = append(mock.Requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockVimeo) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockVimeo) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockVimeo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockVimeo) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockVimeo) SetResponse(path string, resp MockVimeoResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPagedResponse serves pages of a list endpoint. Page n (1-based, from the
// "page" query parameter) returns pages[n-1] as its "data" array, with
// paging.next pointing at page n+1 until the last page.
func (m *MockVimeo) SetPagedResponse(path string, pages []string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page < 1 || page > len(pages) {
			writeJSON(w, http.StatusNotFound, `{"error":"page not found"}`)
			return
		}

		next := "null"
		if page < len(pages) {
			next = fmt.Sprintf(`"%s?page=%d"`, path, page+1)
		}

		body := fmt.Sprintf(`{"total":%d,"page":%d,"paging":{"next":%s,"previous":null},"data":%s}`,
			len(pages), page, next, pages[page-1])
		writeJSON(w, http.StatusOK, body)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockVimeo) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// LastRequest returns the most recent request, or false when none was made.
func (m *MockVimeo) LastRequest() (RecordedRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.Requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}

// defaultHandler answers unknown paths like the API does.
func (m *MockVimeo) defaultHandler(w http.ResponseWriter, r *http.Request) {
	setRateLimitHeaders(w, 500, 499)
	writeJSON(w, http.StatusNotFound, `{"error":"The requested page could not be found."}`)
}

func setRateLimitHeaders(w http.ResponseWriter, limit, remaining int) {
	w.Header().Set("X-RateLimit-Limit", fmt.Sprint(limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprint(remaining))
	w.Header().Set("X-RateLimit-Reset", time.Now().Add(15*time.Minute).UTC().Format(time.RFC3339))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/vnd.vimeo.*+json; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func jsonHeaders(extra map[string]string) map[string]string {
	headers := map[string]string{
		"Content-Type":          "application/vnd.vimeo.*+json; charset=utf-8",
		"X-RateLimit-Limit":     "500",
		"X-RateLimit-Remaining": "499",
		"X-RateLimit-Reset":     time.Now().Add(15 * time.Minute).UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		headers[k] = v
	}
	return headers
}

// NewOKResponse creates a standard 200 OK response with rate limit headers.
func NewOKResponse(body string) MockVimeoResponse {
	return MockVimeoResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    jsonHeaders(nil),
	}
}

// NewCacheableResponse creates a 200 OK response carrying Cache-Control max-age.
func NewCacheableResponse(body string, maxAge time.Duration) MockVimeoResponse {
	return MockVimeoResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: jsonHeaders(map[string]string{
			"Cache-Control": fmt.Sprintf("private, max-age=%d", int(maxAge.Seconds())),
		}),
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response with an
// exhausted quota.
func NewRateLimitResponse() MockVimeoResponse {
	return MockVimeoResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error":"Too many API requests. Please wait a minute and try again."}`,
		Headers: jsonHeaders(map[string]string{
			"X-RateLimit-Remaining": "0",
		}),
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockVimeoResponse {
	return MockVimeoResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":"Something strange occurred. Please try again."}`,
		Headers:    jsonHeaders(nil),
	}
}

// NewUnauthorizedResponse creates a 401 response as sent for a bad token.
func NewUnauthorizedResponse() MockVimeoResponse {
	return MockVimeoResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"error":"You must provide a valid authenticated access token.","developer_message":"The access token is invalid.","error_code":8003}`,
		Headers:    jsonHeaders(nil),
	}
}

// IsJSONBody reports whether a recorded request carried a JSON body.
func (r RecordedRequest) IsJSONBody() bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
