package crawl

import (
	"context"
	"fmt"
	"time"
)

// RecommendationJob fetches analyst recommendation trends for every
// symbol once a week. Tracked under bare symbol keys.
type RecommendationJob struct {
	runner   *Runner
	symbols  []string
	provider RecommendationProvider
	sink     StockSink
	pace     time.Duration
}

func NewRecommendationJob(runner *Runner, symbols []string, provider RecommendationProvider, sink StockSink, pace time.Duration) *RecommendationJob {
	return &RecommendationJob{
		runner:   runner,
		symbols:  symbols,
		provider: provider,
		sink:     sink,
		pace:     pace,
	}
}

func (j *RecommendationJob) Name() string { return "weekly-recommendation" }

func (j *RecommendationJob) Run(ctx context.Context) error {
	return j.runner.FanOut(ctx, j.Name(), j.symbols, bareKey, j.pace, j.update)
}

func (j *RecommendationJob) update(ctx context.Context, symbol string) error {
	recs, err := j.provider.Recommendations(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch recommendations: %w", err)
	}
	if err := j.sink.SaveRecommendations(ctx, symbol, recs); err != nil {
		return fmt.Errorf("push recommendations: %w", err)
	}
	return nil
}
