package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket caps requests per minute against the quote service.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	ratePerS   float64
	burst      float64
	lastRefill time.Time
	disabled   bool
}

func NewTokenBucket(perMinute, burst int) *TokenBucket {
	if perMinute <= 0 {
		return &TokenBucket{disabled: true}
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		tokens:     float64(burst),
		ratePerS:   float64(perMinute) / 60.0,
		burst:      float64(burst),
		lastRefill: time.Now(),
	}
}

func (t *TokenBucket) Allow() bool {
	if t == nil || t.disabled {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refillLocked()
	if t.tokens >= 1 {
		t.tokens -= 1
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (t *TokenBucket) Wait(ctx context.Context) error {
	if t == nil || t.disabled {
		return ctx.Err()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Allow() {
			return nil
		}
		timer := time.NewTimer(t.timeUntilNext())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (t *TokenBucket) timeUntilNext() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refillLocked()
	if t.tokens >= 1 || t.ratePerS <= 0 {
		return 0
	}
	need := 1 - t.tokens
	sec := need / t.ratePerS
	return time.Duration(sec * float64(time.Second))
}

func (t *TokenBucket) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	t.tokens += elapsed * t.ratePerS
	if t.tokens > t.burst {
		t.tokens = t.burst
	}
	t.lastRefill = now
}
