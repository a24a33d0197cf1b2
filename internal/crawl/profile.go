package crawl

import (
	"context"
	"fmt"
	"time"
)

// ProfileJob refreshes company profile data for every symbol. Company
// info changes rarely, so this runs weekly. Tracked under _PROFILE keys
// to stay disjoint from the bare-symbol job kinds.
type ProfileJob struct {
	runner   *Runner
	symbols  []string
	provider ProfileProvider
	sink     StockSink
	pace     time.Duration
}

func NewProfileJob(runner *Runner, symbols []string, provider ProfileProvider, sink StockSink, pace time.Duration) *ProfileJob {
	return &ProfileJob{
		runner:   runner,
		symbols:  symbols,
		provider: provider,
		sink:     sink,
		pace:     pace,
	}
}

func (j *ProfileJob) Name() string { return "weekly-company-profile" }

func (j *ProfileJob) Run(ctx context.Context) error {
	return j.runner.FanOut(ctx, j.Name(), j.symbols, ProfileKey, j.pace, j.update)
}

func (j *ProfileJob) update(ctx context.Context, symbol string) error {
	p, err := j.provider.CompanyProfile(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if err := j.sink.SaveProfile(ctx, symbol, p); err != nil {
		return fmt.Errorf("push profile: %w", err)
	}
	return nil
}
