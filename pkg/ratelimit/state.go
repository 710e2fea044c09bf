// Package ratelimit tracks the Vimeo API request quota and gates requests.
// It reads the X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset
// response headers and stops sending requests before the quota runs out.
package ratelimit

import (
	"time"
)

// Redis keys for shared rate limit state.
const (
	RedisKeyLimit          = "vimeo:rate_limit:limit"
	RedisKeyRemaining      = "vimeo:rate_limit:remaining"
	RedisKeyResetTimestamp = "vimeo:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "vimeo:rate_limit:last_update"
)

// Vimeo rate limit response headers.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// Thresholds for rate limit decisions.
const (
	// RemainingThresholdCritical blocks requests when fewer requests remain.
	RemainingThresholdCritical = 1

	// RemainingThresholdWarning throttles requests when fewer requests remain.
	RemainingThresholdWarning = 10

	// RemainingThresholdHealthy marks the quota as healthy at or above this value.
	RemainingThresholdHealthy = 50
)

// defaultRemaining is assumed until the API reports a real quota.
const defaultRemaining = 100

// RateLimitState is the last quota reported by the API.
type RateLimitState struct {
	// Limit is the request quota of the window (X-RateLimit-Limit).
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the window
	// (X-RateLimit-Remaining).
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets (X-RateLimit-Reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was recorded.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= RemainingThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// defaultState is the optimistic state used before any headers were seen.
func defaultState() *RateLimitState {
	now := time.Now()
	return &RateLimitState{
		Limit:      defaultRemaining,
		Remaining:  defaultRemaining,
		ResetAt:    now.Add(60 * time.Second),
		LastUpdate: now,
		IsHealthy:  true,
	}
}

// IsStale returns true if the state data is older than the given duration.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked until the
// window resets. A window that already reset never blocks.
func (s *RateLimitState) NeedsCriticalBlock() bool {
	return s.Remaining < RemainingThresholdCritical && s.TimeUntilReset() > 0
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *RateLimitState) NeedsThrottling() bool {
	return s.Remaining < RemainingThresholdWarning &&
		s.Remaining >= RemainingThresholdCritical &&
		s.TimeUntilReset() > 0
}

// TimeUntilReset returns the duration until the window resets.
// Returns 0 if the reset time has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field based on current Remaining.
func (s *RateLimitState) UpdateHealth() {
	s.IsHealthy = s.Remaining >= RemainingThresholdHealthy
}
