// Package scheduler fires crawl jobs at fixed wall-clock times, UTC. It
// wraps a cron engine: firing is fire-and-forget, each run gets its own
// goroutine, and neither an error nor a panic escaping one run stops
// subsequent firings.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one schedulable crawl job.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler holds the (cron spec, job) pairs and the ticking loop.
type Scheduler struct {
	cron    *cron.Cron
	baseCtx context.Context
}

// New creates a Scheduler. Jobs run with baseCtx so cancelling it winds
// down in-flight runs during shutdown.
func New(baseCtx context.Context) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		baseCtx: baseCtx,
	}
}

// Add registers a job on a cron schedule (standard 5-field spec or
// @every-style descriptor, evaluated in UTC).
func (s *Scheduler) Add(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		runJob(s.baseCtx, job)
	})
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}
	slog.Info("job registered", "job", job.Name(), "schedule", spec)
	return nil
}

// RunNow fires one run of a job outside its schedule, in its own
// goroutine. Used by the manual trigger endpoints and the startup
// backfill.
func (s *Scheduler) RunNow(job Job) {
	slog.Info("manual run", "job", job.Name())
	go runJob(s.baseCtx, job)
}

// Start begins the ticking loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts future firings and waits for running jobs' cron wrappers to
// return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

func runJob(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job panicked", "job", job.Name(), "panic", r)
		}
	}()
	if err := job.Run(ctx); err != nil {
		slog.Error("job run failed", "job", job.Name(), "error", err)
	}
}
