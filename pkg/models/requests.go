package models

import (
	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/request"
)

// Register adds every model and its collection to t.
func Register(t *mapping.Table) {
	mapping.Register[Video](t)
	mapping.Register[User](t)
	mapping.Register[Pictures](t)
	mapping.Register[AppConfig](t)
}

// MeRequest requests the authenticated user.
func MeRequest() request.Request[User] {
	return request.Me[User]()
}

// MeFollowingRequest requests the users the authenticated user follows.
func MeFollowingRequest() request.Request[[]User] {
	return request.MeFollowing[[]User]()
}

// ConfigsRequest requests the app configuration, from the local cache only
// when fromCache is set.
func ConfigsRequest(fromCache bool) request.Request[AppConfig] {
	return request.Configs[AppConfig](fromCache)
}

// MyVideosRequest requests the authenticated user's videos.
func MyVideosRequest() request.Request[[]Video] {
	return request.MeVideos[[]Video]()
}

// StaffPicksRequest requests the staff picks channel.
func StaffPicksRequest() request.Request[[]Video] {
	return request.StaffPicks[[]Video]()
}

// SearchRequest requests videos matching query.
func SearchRequest(query string) request.Request[[]Video] {
	return request.Search[[]Video](query)
}

// VideoRequest requests a single video by URI or numeric ID.
func VideoRequest(uri string) request.Request[Video] {
	return request.Video[Video](uri)
}
