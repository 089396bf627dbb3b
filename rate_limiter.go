package main

import (
	"sync"
	"time"
)

// RateLimiter enforces a per-IP sliding-window request ceiling.
type RateLimiter struct {
	requests map[string][]time.Time // client IP -> request timestamps
	max      int
	window   time.Duration
	mutex    sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing max requests per window per
// client and starts its cleanup goroutine.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}

	go rl.cleanupOldTimestamps()

	return rl
}

// Allow checks whether the client is within its quota and records the
// request when it is. resetTime says when a rejected client may retry.
func (rl *RateLimiter) Allow(clientIP string) (allowed bool, resetTime time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	timestamps := rl.requests[clientIP]

	filtered := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			filtered = append(filtered, ts)
		}
	}

	if len(filtered) >= rl.max {
		rl.requests[clientIP] = filtered
		return false, filtered[0].Add(rl.window)
	}

	rl.requests[clientIP] = append(filtered, now)
	return true, now.Add(rl.window)
}

// cleanupOldTimestamps drops idle clients so the map does not grow without
// bound.
func (rl *RateLimiter) cleanupOldTimestamps() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		windowStart := time.Now().Add(-rl.window)

		for clientIP, timestamps := range rl.requests {
			filtered := []time.Time{}
			for _, ts := range timestamps {
				if ts.After(windowStart) {
					filtered = append(filtered, ts)
				}
			}

			if len(filtered) == 0 {
				delete(rl.requests, clientIP)
			} else {
				rl.requests[clientIP] = filtered
			}
		}
		rl.mutex.Unlock()
	}
}
