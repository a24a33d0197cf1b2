package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stockapp/crawlservice/internal/ratelimit"
)

// UnitFunc performs one unit of work for a symbol: fetch, transform, push.
// The Runner owns the surrounding state transitions.
type UnitFunc func(ctx context.Context, symbol string) error

// Runner drives job runs: it serialises runs of the same job kind,
// paces provider calls, records per-key state transitions, and isolates
// per-unit failures so one symbol's error never aborts the batch.
type Runner struct {
	tracker *Tracker

	mu      sync.Mutex
	running map[string]bool
}

func NewRunner(tracker *Tracker) *Runner {
	return &Runner{
		tracker: tracker,
		running: make(map[string]bool),
	}
}

// FanOut processes symbols sequentially in their configured order with at
// least pace between consecutive units. If a previous run of the same job
// is still in progress the run is skipped and logged. After a completed
// run every processed key is SUCCEEDED or FAILED, never left RUNNING.
func (r *Runner) FanOut(ctx context.Context, job string, symbols []string, keyFor func(string) string, pace time.Duration, unit UnitFunc) error {
	if !r.tryAcquire(job) {
		slog.Warn("previous run still in progress, skipping", "job", job)
		return nil
	}
	defer r.release(job)

	slog.Info("starting run", "job", job, "symbols", len(symbols))

	pacer := ratelimit.NewPacer(pace)
	start := time.Now()
	var succeeded, failed int

	for _, symbol := range symbols {
		if err := pacer.Wait(ctx); err != nil {
			slog.Warn("run interrupted", "job", job, "error", err)
			break
		}
		if r.runUnit(ctx, job, keyFor(symbol), symbol, unit) {
			succeeded++
		} else {
			failed++
		}
	}

	slog.Info("run completed", "job", job,
		"succeeded", succeeded, "failed", failed,
		"duration", time.Since(start).String())
	return nil
}

// RunSingle processes a batch job tracked under one sentinel key.
func (r *Runner) RunSingle(ctx context.Context, job, key string, fn func(ctx context.Context) error) error {
	return r.FanOut(ctx, job, []string{key}, func(k string) string { return k }, 0,
		func(ctx context.Context, _ string) error { return fn(ctx) })
}

// runUnit reports whether the unit succeeded. A state store write failure
// is logged but does not fail the unit; the next run cannot tell "never
// ran" from "ran and the write failed".
func (r *Runner) runUnit(ctx context.Context, job, key, symbol string, unit UnitFunc) bool {
	if err := r.tracker.MarkRunning(ctx, key); err != nil {
		slog.Error("failed to record running state", "job", job, "key", key, "error", err)
	}

	if err := unit(ctx, symbol); err != nil {
		slog.Error("unit of work failed", "job", job, "key", key, "error", err)
		if serr := r.tracker.MarkFailed(ctx, key, err); serr != nil {
			slog.Error("failed to record failed state", "job", job, "key", key, "error", serr)
		}
		return false
	}

	if err := r.tracker.MarkSucceeded(ctx, key); err != nil {
		slog.Error("failed to record succeeded state", "job", job, "key", key, "error", err)
	}
	return true
}

func (r *Runner) tryAcquire(job string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[job] {
		return false
	}
	r.running[job] = true
	return true
}

func (r *Runner) release(job string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, job)
}
