package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NewsJob fetches articles for the whole symbol universe in one rolling
// window per run, tracked under the NEWS_ALL sentinel key. The lookback
// must exceed the run-to-run interval so no publication gap opens when a
// run is delayed or fails; the news sink dedupes by article UUID.
type NewsJob struct {
	runner   *Runner
	symbols  []string
	provider NewsProvider
	sink     NewsSink
	lookback time.Duration
	limit    int
	now      func() time.Time
}

func NewNewsJob(runner *Runner, symbols []string, provider NewsProvider, sink NewsSink, lookback time.Duration, limit int) *NewsJob {
	return &NewsJob{
		runner:   runner,
		symbols:  symbols,
		provider: provider,
		sink:     sink,
		lookback: lookback,
		limit:    limit,
		now:      time.Now,
	}
}

func (j *NewsJob) Name() string { return "market-news" }

func (j *NewsJob) Run(ctx context.Context) error {
	return j.runner.RunSingle(ctx, j.Name(), KeyNewsAll, j.fetch)
}

func (j *NewsJob) fetch(ctx context.Context) error {
	publishedAfter := j.now().UTC().Add(-j.lookback)

	resp, err := j.provider.News(ctx, j.symbols, publishedAfter, j.limit)
	if err != nil {
		return fmt.Errorf("fetch news: %w", err)
	}
	if len(resp.Data) == 0 {
		slog.Info("no new articles in window", "job", j.Name(), "publishedAfter", publishedAfter)
		return nil
	}

	n, err := j.sink.SaveNews(ctx, resp.Data)
	if err != nil {
		return fmt.Errorf("push news batch: %w", err)
	}

	slog.Info("news batch persisted", "job", j.Name(), "fetched", len(resp.Data), "processed", n)
	return nil
}
