package request

import "net/url"

// Endpoint paths of the Vimeo API.
const (
	PathMe          = "/me"
	PathMeFollowing = "/me/following"
	PathMeVideos    = "/me/videos"
	PathStaffPicks  = "/channels/staffpicks/videos"
	PathConfigs     = "/configs"
	PathVideos      = "/videos"
)

// Me requests the authenticated user.
func Me[T any]() Request[T] {
	return New[T](WithPath(PathMe))
}

// MeFollowing requests the accounts the authenticated user follows.
func MeFollowing[T any]() Request[T] {
	return New[T](WithPath(PathMeFollowing))
}

// MeVideos requests the authenticated user's videos.
func MeVideos[T any]() Request[T] {
	return New[T](WithPath(PathMeVideos))
}

// StaffPicks requests the staff picks channel, readable without a user.
func StaffPicks[T any]() Request[T] {
	return New[T](WithPath(PathStaffPicks))
}

// Configs requests the app configuration. The cache variant reads the local
// cache only; the network variant stores its payload so a later cache read
// can succeed.
func Configs[T any](fromCache bool) Request[T] {
	if fromCache {
		return New[T](WithPath(PathConfigs), WithCacheFetchPolicy(CacheOnly))
	}
	return New[T](
		WithPath(PathConfigs),
		WithCacheFetchPolicy(NetworkOnly),
		WithCacheResponse(true),
	)
}

// Search requests videos matching query.
func Search[T any](query string) Request[T] {
	return New[T](WithPath(PathVideos), WithParameter("query", query))
}

// Video requests a single video by its URI, e.g. "/videos/76979871".
// A bare numeric ID is expanded to a URI.
func Video[T any](uri string) Request[T] {
	if uri == "" || uri[0] != '/' {
		uri = PathVideos + "/" + url.PathEscape(uri)
	}
	return New[T](WithPath(uri))
}
