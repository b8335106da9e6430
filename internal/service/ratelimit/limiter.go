package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-key token bucket. It bounds how often on-demand snapshot
// fetches may hit the provider for the same instrument; a denied request
// falls back to whatever cached history exists.
type Limiter struct {
	capacity float64
	refill   float64 // tokens per second

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// New creates a limiter allowing burst requests back to back per key,
// refilling at refillPerSec tokens per second.
func New(burst int, refillPerSec float64) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		capacity: float64(burst),
		refill:   refillPerSec,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// Allow reports whether one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
