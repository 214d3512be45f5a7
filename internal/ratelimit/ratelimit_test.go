package ratelimit

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests drive refill deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(capacity int, refillRate float64) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := NewLimiter(capacity, refillRate)
	l.now = clock.Now
	return l, clock
}

func TestBucketStartsFull(t *testing.T) {
	l, _ := newTestLimiter(5, 1)
	for i := 0; i < 5; i++ {
		if err := l.Allow("client"); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if err := l.Allow("client"); !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests after capacity exhausted, got %v", err)
	}
}

func TestZeroRefillNeverRecovers(t *testing.T) {
	l, clock := newTestLimiter(1, 0)
	if err := l.Allow("client"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Hour)
	if err := l.Allow("client"); !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("rate 0 must never refill, got %v", err)
	}
}

func TestRefillIsContinuous(t *testing.T) {
	l, clock := newTestLimiter(5, 0.5)
	for i := 0; i < 5; i++ {
		if err := l.Allow("client"); err != nil {
			t.Fatal(err)
		}
	}

	// 1s at 0.5 tokens/s is half a token: still rejected.
	clock.Advance(time.Second)
	if err := l.Allow("client"); !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("expected rejection at 0.5 tokens, got %v", err)
	}

	// Another 1s crosses 1 full token.
	clock.Advance(time.Second)
	if err := l.Allow("client"); err != nil {
		t.Fatalf("expected admission after refill, got %v", err)
	}
}

func TestRefillCapsAtCapacity(t *testing.T) {
	l, clock := newTestLimiter(3, 10)
	if err := l.Allow("client"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Hour)
	if tokens := l.Tokens("client"); tokens != 3 {
		t.Fatalf("tokens = %g, want capped at 3", tokens)
	}
}

func TestClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, 0)
	if err := l.Allow("alpha"); err != nil {
		t.Fatal(err)
	}
	if err := l.Allow("alpha"); !errors.Is(err, ErrTooManyRequests) {
		t.Fatal("alpha should be exhausted")
	}
	if err := l.Allow("beta"); err != nil {
		t.Fatalf("beta must have its own bucket, got %v", err)
	}
}

func TestConcurrentAllowNeverOveradmits(t *testing.T) {
	l, _ := newTestLimiter(50, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("client") == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 50 {
		t.Fatalf("admitted %d requests, want exactly 50", admitted)
	}
}
