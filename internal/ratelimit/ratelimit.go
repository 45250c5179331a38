package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter enforces a minimum delay between consecutive requests to the same
// vendor site, with optional jitter. Used by the search-page brands that hit
// vendor HTML endpoints rather than anonymous CDN hosts.
type Limiter struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
	jitter     bool
}

func New(minDelay, maxDelay time.Duration) *Limiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Limiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
		jitter:   true,
	}
}

func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := time.Since(l.lastAction)
	delay := l.calculateDelay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	l.lastAction = time.Now()
	return nil
}

func (l *Limiter) calculateDelay() time.Duration {
	if !l.jitter || l.minDelay == l.maxDelay {
		return l.minDelay
	}

	delta := l.maxDelay - l.minDelay
	return l.minDelay + time.Duration(rand.Int63n(int64(delta)))
}
