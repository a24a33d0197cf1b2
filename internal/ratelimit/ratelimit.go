// Package ratelimit provides a fixed-interval pacer used to space out
// consecutive provider calls during a symbol fan-out. It enforces a lower
// bound on inter-call spacing; there is no burst allowance and no backoff.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer blocks callers until at least Interval has elapsed since the
// previous call completed waiting. The first call never waits.
type Pacer struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewPacer creates a Pacer with the given minimum interval. A zero or
// negative interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the interval has elapsed since the last call, or
// returns early with the context's error if it is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	wait := time.Until(p.last.Add(p.interval))
	p.mu.Unlock()

	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
	return nil
}
