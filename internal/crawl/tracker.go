package crawl

import (
	"context"
	"time"

	"github.com/stockapp/crawlservice/internal/apperror"
)

// Tracker applies job state transitions on top of the Repository. Each
// transition is a find-or-create followed by an upsert; this is only safe
// under the single-writer-per-run assumption enforced by the Runner's
// per-job lock.
type Tracker struct {
	repo Repository
	now  func() time.Time
}

func NewTracker(repo Repository) *Tracker {
	return &Tracker{repo: repo, now: time.Now}
}

// MarkRunning records that a unit of work has started.
func (t *Tracker) MarkRunning(ctx context.Context, key string) error {
	return t.transition(ctx, key, func(s *State) {
		s.Status = StatusRunning
	})
}

// MarkSucceeded records a successful unit: stamps the success time and
// clears any previous error.
func (t *Tracker) MarkSucceeded(ctx context.Context, key string) error {
	return t.transition(ctx, key, func(s *State) {
		s.Status = StatusSucceeded
		s.LastSuccess = t.now().UTC()
		s.ErrorLog = ""
	})
}

// MarkFailed records a failed unit. The last success timestamp is left
// untouched.
func (t *Tracker) MarkFailed(ctx context.Context, key string, cause error) error {
	return t.transition(ctx, key, func(s *State) {
		s.Status = StatusFailed
		if cause != nil {
			s.ErrorLog = cause.Error()
		}
	})
}

// Get returns the state for a key, or a NotFound error when no record
// exists yet.
func (t *Tracker) Get(ctx context.Context, key string) (*State, error) {
	s, err := t.repo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.New(apperror.NotFound, "no crawl state for key: "+key)
	}
	return s, nil
}

func (t *Tracker) List(ctx context.Context) ([]State, error) {
	return t.repo.List(ctx)
}

func (t *Tracker) transition(ctx context.Context, key string, mutate func(*State)) error {
	s, err := t.repo.Find(ctx, key)
	if err != nil {
		return err
	}
	if s == nil {
		s = &State{Key: key, Status: StatusPending}
	}
	mutate(s)
	s.UpdatedAt = t.now().UTC()
	return t.repo.Upsert(ctx, s)
}
