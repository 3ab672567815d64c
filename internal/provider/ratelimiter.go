package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket: it holds up to maxTokens and regains one
// token per refillInterval.
type RateLimiter struct {
	mu             sync.Mutex
	tokens         int
	maxTokens      int
	refillInterval time.Duration
	lastRefill     time.Time
}

func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	if maxTokens <= 0 {
		maxTokens = 1
	}
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillInterval: refillInterval,
		lastRefill:     time.Now(),
	}
}

// PerMinute allows a burst of n calls and n calls per minute sustained.
func PerMinute(n int) *RateLimiter {
	if n <= 0 {
		n = 1
	}
	return NewRateLimiter(n, time.Minute/time.Duration(n))
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		wait := r.refillInterval - time.Since(r.lastRefill)
		r.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Available reports the tokens left after refilling.
func (r *RateLimiter) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

func (r *RateLimiter) refill() {
	if r.refillInterval <= 0 {
		r.tokens = r.maxTokens
		return
	}
	elapsed := time.Since(r.lastRefill)
	newTokens := int(elapsed / r.refillInterval)
	if newTokens <= 0 {
		return
	}
	r.tokens = min(r.tokens+newTokens, r.maxTokens)
	r.lastRefill = r.lastRefill.Add(time.Duration(newTokens) * r.refillInterval)
}
