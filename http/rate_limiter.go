package http

import (
	"sync"
	"time"
)

const (
	bucketIdleTimeout = 1 * time.Hour
	sweepInterval     = 30 * time.Minute
)

// tokenBucket holds one client's allowance for the current window.
type tokenBucket struct {
	tokens   int
	resetAt  time.Time
	lastSeen time.Time
}

// take spends a token, refilling first when the window has passed. A
// rejected call returns how long until resetAt.
func (b *tokenBucket) take(now time.Time, capacity int, window time.Duration) (bool, time.Duration) {
	b.lastSeen = now
	if !now.Before(b.resetAt) {
		b.tokens = capacity
		b.resetAt = now.Add(window)
	}
	if b.tokens == 0 {
		return false, b.resetAt.Sub(now)
	}
	b.tokens--
	return true, 0
}

// RateLimiter gives every client key capacity requests per window.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	buckets  map[string]*tokenBucket
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	if capacity <= 0 {
		capacity = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		buckets:  make(map[string]*tokenBucket),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow takes a token for key. When none is left it returns false and the
// time until the bucket refills.
func (r *RateLimiter) Allow(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		b = &tokenBucket{}
		r.buckets[key] = b
	}
	return b.take(r.now(), r.capacity, r.window)
}

func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.done:
			return
		}
	}
}

// sweep forgets clients idle for longer than bucketIdleTimeout.
func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-bucketIdleTimeout)
	for key, b := range r.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(r.buckets, key)
		}
	}
}
