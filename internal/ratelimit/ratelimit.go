// Package ratelimit is the admission-control gate in front of every
// externally reachable entry point: a continuous-refill token bucket
// per client identity, no queuing, rejected requests are not buffered
// or retried.
package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrTooManyRequests is the distinct rejection signal callers must
// surface instead of a generic failure.
var ErrTooManyRequests = errors.New("ratelimit: too many requests")

// bucket holds the refill state for one client identity. The bucket's
// own mutex makes refill-then-consume atomic without blocking other
// identities.
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// Limiter admits or rejects requests per client identity.
type Limiter struct {
	capacity   float64
	refillRate float64 // tokens per second

	mu      sync.Mutex
	buckets map[string]*bucket

	now func() time.Time // injectable for tests
}

// NewLimiter creates a Limiter with the given bucket capacity and
// refill rate in tokens per second.
func NewLimiter(capacity int, refillRate float64) *Limiter {
	return &Limiter{
		capacity:   float64(capacity),
		refillRate: refillRate,
		buckets:    make(map[string]*bucket),
		now:        time.Now,
	}
}

// Allow consumes one token from the client's bucket if at least one is
// available. It returns ErrTooManyRequests when the bucket is empty.
func (l *Limiter) Allow(clientID string) error {
	b := l.lookup(clientID)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(l.capacity, b.tokens+elapsed*l.refillRate)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return nil
	}
	return ErrTooManyRequests
}

// Tokens reports the current token count for a client identity without
// consuming, refilling first. Mostly useful for diagnostics and tests.
func (l *Limiter) Tokens(clientID string) float64 {
	b := l.lookup(clientID)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(l.capacity, b.tokens+elapsed*l.refillRate)
	b.lastRefill = now
	return b.tokens
}

// lookup returns the bucket for a client, creating a full one on first
// sight. Only the map access holds the limiter-wide lock.
func (l *Limiter) lookup(clientID string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: l.now()}
		l.buckets[clientID] = b
	}
	return b
}
