package models

import (
	"path"
	"time"
)

// Picture is one rendition of an image.
type Picture struct {
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	Link               string `json:"link"`
	LinkWithPlayButton string `json:"link_with_play_button,omitempty"`
}

// Pictures is an image together with its renditions.
type Pictures struct {
	URI    string    `json:"uri"`
	Active bool      `json:"active"`
	Type   string    `json:"type"`
	Sizes  []Picture `json:"sizes"`
}

// ModelKeyPath implements mapping.Mappable.
func (Pictures) ModelKeyPath() string { return "" }

// Best returns the smallest rendition at least width pixels wide, or the
// widest one when none is wide enough.
func (p Pictures) Best(width int) (Picture, bool) {
	if len(p.Sizes) == 0 {
		return Picture{}, false
	}

	var best Picture
	found := false
	widest := p.Sizes[0]
	for _, size := range p.Sizes {
		if size.Width > widest.Width {
			widest = size
		}
		if size.Width >= width && (!found || size.Width < best.Width) {
			best = size
			found = true
		}
	}

	if !found {
		return widest, true
	}
	return best, true
}

// User is a Vimeo account.
type User struct {
	URI         string    `json:"uri"`
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	Location    string    `json:"location,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Account     string    `json:"account,omitempty"`
	CreatedTime time.Time `json:"created_time"`
	Pictures    *Pictures `json:"pictures,omitempty"`
}

// ModelKeyPath implements mapping.Mappable.
func (User) ModelKeyPath() string { return "" }

// ID returns the last segment of the user URI.
func (u User) ID() string {
	return idFromURI(u.URI)
}

// Privacy holds the visibility settings of a video.
type Privacy struct {
	View     string `json:"view"`
	Embed    string `json:"embed"`
	Download bool   `json:"download"`
	Add      bool   `json:"add"`
	Comments string `json:"comments"`
}

// Stats holds the public counters of a video.
type Stats struct {
	Plays *int `json:"plays"`
}

// Video is a Vimeo video.
type Video struct {
	URI          string    `json:"uri"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Link         string    `json:"link"`
	Duration     int       `json:"duration"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Language     string    `json:"language,omitempty"`
	CreatedTime  time.Time `json:"created_time"`
	ModifiedTime time.Time `json:"modified_time"`
	ReleaseTime  time.Time `json:"release_time"`
	Status       string    `json:"status,omitempty"`
	Privacy      *Privacy  `json:"privacy,omitempty"`
	Pictures     *Pictures `json:"pictures,omitempty"`
	User         *User     `json:"user,omitempty"`
	Stats        *Stats    `json:"stats,omitempty"`
}

// ModelKeyPath implements mapping.Mappable.
func (Video) ModelKeyPath() string { return "" }

// ID returns the last segment of the video URI.
func (v Video) ID() string {
	return idFromURI(v.URI)
}

// Length returns the duration as a time.Duration.
func (v Video) Length() time.Duration {
	return time.Duration(v.Duration) * time.Second
}

// APIConfig is the API section of the app configuration.
type APIConfig struct {
	Host string `json:"host"`
}

// FeaturesConfig holds the feature switches of the app configuration.
type FeaturesConfig struct {
	ComScore     bool `json:"comscore"`
	PlayTracking bool `json:"play_tracking"`
	IAP          bool `json:"iap"`
}

// FacebookConfig is the Facebook section of the app configuration.
type FacebookConfig struct {
	RequiredScopes []string `json:"required_scopes"`
}

// AppConfig is the application configuration served by /configs.
type AppConfig struct {
	API      APIConfig      `json:"api"`
	Features FeaturesConfig `json:"features"`
	Facebook FacebookConfig `json:"facebook"`
}

// ModelKeyPath implements mapping.Mappable.
func (AppConfig) ModelKeyPath() string { return "" }

func idFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	return path.Base(uri)
}
