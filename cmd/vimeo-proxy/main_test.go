package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/vimeo-client/internal/testutil"
	"github.com/Sternrassler/vimeo-client/pkg/cache"
	"github.com/Sternrassler/vimeo-client/pkg/client"
	"github.com/Sternrassler/vimeo-client/pkg/config"
	"github.com/Sternrassler/vimeo-client/pkg/logging"
	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/models"
	"github.com/Sternrassler/vimeo-client/pkg/transport"
)

func quietLogger() zerolog.Logger {
	return logging.Nop()
}

// newTestServer serves the proxy over a memory store and a mock Vimeo API.
func newTestServer(t *testing.T, mock *testutil.MockVimeo) http.Handler {
	t.Helper()

	cfg := config.Default()
	cfg.Vimeo.BaseURL = mock.URL()
	cfg.Cache.Backend = config.BackendMemory

	c, cleanup, err := buildClient(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return newServer(c, quietLogger())
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthEndpoint(t *testing.T) {
	mock := testutil.NewMockVimeo()
	defer mock.Close()

	rec, _ := get(t, newTestServer(t, mock), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	mock := testutil.NewMockVimeo()
	defer mock.Close()
	mock.SetResponse("/me", testutil.NewOKResponse(`{"uri":"/users/1","name":"Ada"}`))
	h := newTestServer(t, mock)

	get(t, h, "/me")
	rec, _ := get(t, h, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vimeo_dispatches_total")
	assert.Contains(t, rec.Body.String(), "vimeo_requests_total")
}

func TestMeEndpoint(t *testing.T) {
	mock := testutil.NewMockVimeo()
	defer mock.Close()
	mock.SetResponse("/me", testutil.NewOKResponse(`{"uri":"/users/1","name":"Ada"}`))

	rec, body := get(t, newTestServer(t, mock), "/me")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "network", body["source"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", data["name"])
	assert.NotContains(t, body, "next_page")
}

func TestMeEndpoint_Unauthorized(t *testing.T) {
	mock := testutil.NewMockVimeo()
	defer mock.Close()
	mock.SetResponse("/me", testutil.NewUnauthorizedResponse())

	rec, body := get(t, newTestServer(t, mock), "/me")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(client.KindTransport), body["error"])
}

func TestVideosEndpoint_Paging(t *testing.T) {
	mock := testutil.NewMockVimeo()
	defer mock.Close()
	mock.SetPagedResponse("/channels/staffpicks/videos", []string{
		`[{"uri":"/videos/1","name":"one"}]`,
		`[{"uri":"/videos/2","name":"two"}]`,
	})
	h := newTestServer(t, mock)

	rec, body := get(t, h, "/videos?source=staffpicks&per_page=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/channels/staffpicks/videos?page=2", body["next_page"])

	videos, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, videos, 1)
	assert.Equal(t, "one", videos[0].(map[string]any)["name"])

	rec, body = get(t, h, "/videos?source=staffpicks&page_url="+body["next_page"].(string))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "next_page")
	assert.Equal(t, "two", body["data"].([]any)[0].(map[string]any)["name"])

	last, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "2", last.Query.Get("page"))
}

func TestVideosEndpoint_BadRequests(t *testing.T) {
	mock := testutil.NewMockVimeo()
	defer mock.Close()
	h := newTestServer(t, mock)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown source", "/videos?source=everyone"},
		{"page of another list", "/videos?source=me&page_url=/channels/staffpicks/videos?page=2"},
		{"invalid per_page", "/videos?per_page=zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, h, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "bad_request", body["error"])
		})
	}
	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestConfigsEndpoint_FromCache(t *testing.T) {
	mock := testutil.NewMockVimeo()
	defer mock.Close()
	mock.SetResponse("/configs", testutil.NewOKResponse(`{"api":{"host":"api.vimeo.com"}}`))
	h := newTestServer(t, mock)

	rec, body := get(t, h, "/configs?from_cache=true")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, string(client.KindMalformedResponse), body["error"])

	rec, body = get(t, h, "/configs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "network", body["source"])

	rec, body = get(t, h, "/configs?from_cache=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cache", body["source"])
	assert.Equal(t, 1, mock.GetRequestCount())

	rec, _ = get(t, h, "/configs?from_cache=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  *client.ClientError
		want int
	}{
		{"unauthorized", &client.ClientError{Kind: client.KindTransport, StatusCode: 401}, http.StatusUnauthorized},
		{"not found", &client.ClientError{Kind: client.KindTransport, StatusCode: 404}, http.StatusNotFound},
		{"rate limited", &client.ClientError{Kind: client.KindTransport, StatusCode: 429}, http.StatusTooManyRequests},
		{"server error", &client.ClientError{Kind: client.KindTransport, StatusCode: 503}, http.StatusBadGateway},
		{"timeout", &client.ClientError{Kind: client.KindTransport, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"malformed", &client.ClientError{Kind: client.KindMalformedResponse}, http.StatusBadGateway},
		{"mapping", &client.ClientError{Kind: client.KindMappingFailed}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, string(tt.err.Kind), kind)
		})
	}
}

func TestBuildClient_RedisUnavailable(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.URL = "127.0.0.1:1"

	_, _, err := buildClient(context.Background(), cfg, quietLogger())
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestServe_UsesTransportOnce(t *testing.T) {
	var calls atomic.Int32
	tr := transport.Func(func(ctx context.Context, call transport.Call) (*transport.Payload, error) {
		calls.Add(1)
		return &transport.Payload{Body: []byte(`{"uri":"/users/7","name":"Grace"}`), Header: http.Header{}, StatusCode: 200}, nil
	})

	table := mapping.NewTable()
	models.Register(table)
	logger := quietLogger()
	ccfg := client.DefaultConfig(tr, cache.NewMemoryStore(4), table)
	ccfg.Logger = &logger
	c, err := client.New(ccfg)
	require.NoError(t, err)

	rec, body := get(t, newServer(c, logger), "/me")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Grace", body["data"].(map[string]any)["name"])
	assert.EqualValues(t, 1, calls.Load())
}
