package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/vimeo-client/pkg/request"
)

type video struct {
	Name string `json:"name"`
}

func pagingPayload(next any) map[string]any {
	return map[string]any{
		"paging": map[string]any{"next": next, "previous": nil},
		"data":   []any{},
	}
}

func TestNext_CarriesRequestSettings(t *testing.T) {
	req := request.New[[]video](
		request.WithPath("/me/videos"),
		request.WithParameter("per_page", 25),
		request.WithModelKeyPath("data"),
		request.WithCacheFetchPolicy(request.CacheThenNetwork),
		request.WithCacheResponse(true),
	)

	next, ok := Next(Chainer{}, pagingPayload("/me/videos?page=2"), req)
	require.True(t, ok)
	require.NotNil(t, next)

	assert.Equal(t, "/me/videos?page=2", next.Path())
	assert.Equal(t, req.Method(), next.Method())
	assert.Equal(t, req.Parameters(), next.Parameters())
	assert.Equal(t, req.CacheFetchPolicy(), next.CacheFetchPolicy())
	assert.Equal(t, req.ShouldCacheResponse(), next.ShouldCacheResponse())

	keyPath, set := next.ModelKeyPath()
	assert.True(t, set)
	assert.Equal(t, "data", keyPath)

	// The current request is untouched
	assert.Equal(t, "/me/videos", req.Path())
}

func TestNext_NoNextPage(t *testing.T) {
	req := request.New[[]video](request.WithPath("/me/videos"))

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"absent paging", map[string]any{"data": []any{}}},
		{"absent next", map[string]any{"paging": map[string]any{}}},
		{"null next", pagingPayload(nil)},
		{"empty next", pagingPayload("")},
		{"non-string next", pagingPayload(2)},
		{"paging not an object", map[string]any{"paging": "next"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := Next(Chainer{}, tt.payload, req)
			assert.False(t, ok)
			assert.Nil(t, next)
		})
	}
}

func TestChainer_NextPath(t *testing.T) {
	tests := []struct {
		name string
		link any
		want string
		ok   bool
	}{
		{"relative path", "/channels/staffpicks/videos?page=3", "/channels/staffpicks/videos?page=3", true},
		{"absolute url", "https://api.vimeo.com/me/videos?page=2&per_page=10", "/me/videos?page=2&per_page=10", true},
		{"missing slash", "me/videos?page=2", "/me/videos?page=2", true},
		{"whitespace", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Chainer{}.NextPath(pagingPayload(tt.link))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChainer_CustomKeyPath(t *testing.T) {
	ch := NewChainer("meta.links.next")
	payload := map[string]any{
		"meta": map[string]any{"links": map[string]any{"next": "/me/following?page=2"}},
	}

	got, ok := ch.NextPath(payload)
	require.True(t, ok)
	assert.Equal(t, "/me/following?page=2", got)

	// The default envelope is ignored by a custom chainer
	_, ok = ch.NextPath(pagingPayload("/me/following?page=2"))
	assert.False(t, ok)
}

func TestNewChainer_Default(t *testing.T) {
	assert.Equal(t, DefaultNextKeyPath, NewChainer("").NextKeyPath)
}
