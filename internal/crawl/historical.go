package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stockapp/crawlservice/internal/provider/finnhub"
	"github.com/stockapp/crawlservice/internal/provider/twelvedata"
)

const (
	// saveChunkSize bounds the bulk-save request body; large backfills
	// are split into multiple posts.
	saveChunkSize = 100
	// saveChunkPause spaces out consecutive bulk posts to the sink.
	saveChunkPause = 500 * time.Millisecond
)

// HistoricalJob brings each symbol's daily price series up to date. It
// asks the stock sink for the latest persisted date, fetches only the
// missing window (full history from startDate on cold start), and saves
// the bars in chunks. The company profile is refreshed alongside so a
// cold start leaves a complete record downstream.
type HistoricalJob struct {
	runner    *Runner
	symbols   []string
	series    SeriesProvider
	profiles  ProfileProvider
	sink      StockSink
	startDate time.Time
	pace      time.Duration
	now       func() time.Time
}

func NewHistoricalJob(runner *Runner, symbols []string, series SeriesProvider, profiles ProfileProvider, sink StockSink, startDate time.Time, pace time.Duration) *HistoricalJob {
	return &HistoricalJob{
		runner:    runner,
		symbols:   symbols,
		series:    series,
		profiles:  profiles,
		sink:      sink,
		startDate: startDate,
		pace:      pace,
		now:       time.Now,
	}
}

func (j *HistoricalJob) Name() string { return "historical-update" }

func (j *HistoricalJob) Run(ctx context.Context) error {
	return j.runner.FanOut(ctx, j.Name(), j.symbols, bareKey, j.pace, j.backfill)
}

func (j *HistoricalJob) backfill(ctx context.Context, symbol string) error {
	latest, err := j.sink.LatestHistoricalDate(ctx, symbol)
	if err != nil {
		return fmt.Errorf("query latest date: %w", err)
	}

	w := NextWindow(latest, j.startDate, j.now())
	if w.Empty() {
		slog.Info("series already up to date", "job", j.Name(), "symbol", symbol, "latest", latest)
		return nil
	}
	if latest.IsZero() {
		slog.Info("no existing data, full backfill", "job", j.Name(), "symbol", symbol, "from", w.From)
	} else {
		slog.Info("incremental backfill", "job", j.Name(), "symbol", symbol, "from", w.From, "to", w.To)
	}

	var (
		profile *finnhub.Profile
		series  *twelvedata.TimeSeries
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = j.profiles.CompanyProfile(gctx, symbol)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		series, err = j.series.TimeSeries(gctx, symbol, w.From, w.To)
		if err != nil {
			return fmt.Errorf("fetch time series: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := j.sink.SaveProfile(ctx, symbol, profile); err != nil {
		return fmt.Errorf("push profile: %w", err)
	}
	if err := j.saveInChunks(ctx, symbol, series); err != nil {
		return err
	}
	return nil
}

// saveInChunks posts the fetched bars in slices of saveChunkSize, pausing
// between posts so a multi-year backfill does not hammer the sink.
func (j *HistoricalJob) saveInChunks(ctx context.Context, symbol string, series *twelvedata.TimeSeries) error {
	values := series.Values
	if len(values) == 0 {
		return nil
	}

	chunks := (len(values) + saveChunkSize - 1) / saveChunkSize
	slog.Info("saving historical prices", "job", j.Name(), "symbol", symbol, "values", len(values), "chunks", chunks)

	for i := 0; i < len(values); i += saveChunkSize {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(saveChunkPause):
			}
		}
		end := min(i+saveChunkSize, len(values))
		if err := j.sink.SaveHistoricalPrices(ctx, symbol, series.Meta, values[i:end]); err != nil {
			return fmt.Errorf("push historical prices (chunk %d/%d): %w", i/saveChunkSize+1, chunks, err)
		}
	}
	return nil
}
