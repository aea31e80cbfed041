package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding the free-tier aggregator APIs.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	capacity   int
	interval   time.Duration
	lastRefill time.Time
}

// NewRateLimiter allows capacity calls with one token refilled every
// interval.
func NewRateLimiter(capacity int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     capacity,
		capacity:   capacity,
		interval:   interval,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		if l.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.interval):
		}
	}
}

func (l *RateLimiter) take() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if refilled := int(time.Since(l.lastRefill) / l.interval); refilled > 0 {
		l.tokens += refilled
		if l.tokens > l.capacity {
			l.tokens = l.capacity
		}
		l.lastRefill = l.lastRefill.Add(time.Duration(refilled) * l.interval)
	}
	if l.tokens == 0 {
		return false
	}
	l.tokens--
	return true
}
