// Package ratelimiter implements a per-identity token bucket rate limiter.
package ratelimiter

import (
	"sync"
	"time"
)

// bucket is a token bucket for a single identity
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	identity   string           // reference for cleanup
	parent     *UserRateLimiter // reference for cleanup
}

// UserRateLimiter manages rate limiting for multiple identities
// (user ids, IPs or a single global key)
type UserRateLimiter struct {
	limiters       map[string]*bucket
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates a limiter allowing `rate` requests per second with the given
// burst capacity. Idle buckets are dropped after expirationTime.
func New(rate float64, capacity float64, expirationTime time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limiters:       make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

func Rps10() *UserRateLimiter   { return New(10, 10, 1*time.Hour) }
func Rps100() *UserRateLimiter  { return New(100, 100, 1*time.Hour) }
func OnceInSecond() *UserRateLimiter { return New(1, 1, 1*time.Hour) }

// cleanup removes a specific bucket
func (url *UserRateLimiter) cleanup(identity string) {
	url.mu.Lock()
	delete(url.limiters, identity)
	url.mu.Unlock()
}

// resetTimer resets the expiration timer for a bucket
func (b *bucket) resetTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}

	b.timer = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.cleanup(b.identity)
	})
}

// getLimiter gets or creates a bucket for an identity
func (url *UserRateLimiter) getLimiter(identity string) *bucket {
	// First try read-only lookup
	url.mu.RLock()
	limiter, exists := url.limiters[identity]
	url.mu.RUnlock()

	if exists {
		limiter.resetTimer()
		return limiter
	}

	// If not found, acquire write lock and create new
	url.mu.Lock()
	defer url.mu.Unlock()

	// Double-check after acquiring write lock
	limiter, exists = url.limiters[identity]
	if exists {
		limiter.resetTimer()
		return limiter
	}

	limiter = &bucket{
		tokens:     url.capacity,
		capacity:   url.capacity,
		rate:       url.rate,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     url,
	}
	url.limiters[identity] = limiter
	limiter.resetTimer()

	return limiter
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}

	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	return false
}

// Allow checks if a request should be allowed for a given identity
func (url *UserRateLimiter) Allow(identity string) bool {
	return url.getLimiter(identity).allow()
}

// Stop cleans up all timers
func (url *UserRateLimiter) Stop() {
	url.mu.Lock()
	defer url.mu.Unlock()

	for _, limiter := range url.limiters {
		if limiter.timer != nil {
			limiter.timer.Stop()
		}
	}
}
