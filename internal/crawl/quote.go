package crawl

import (
	"context"
	"fmt"
	"time"
)

// QuoteJob fetches the latest quote for every symbol in the universe and
// forwards it to the stock sink. Tracked under bare symbol keys.
type QuoteJob struct {
	runner   *Runner
	symbols  []string
	provider QuoteProvider
	sink     StockSink
	pace     time.Duration
}

func NewQuoteJob(runner *Runner, symbols []string, provider QuoteProvider, sink StockSink, pace time.Duration) *QuoteJob {
	return &QuoteJob{
		runner:   runner,
		symbols:  symbols,
		provider: provider,
		sink:     sink,
		pace:     pace,
	}
}

func (j *QuoteJob) Name() string { return "daily-quote" }

func (j *QuoteJob) Run(ctx context.Context) error {
	return j.runner.FanOut(ctx, j.Name(), j.symbols, bareKey, j.pace, j.update)
}

func (j *QuoteJob) update(ctx context.Context, symbol string) error {
	q, err := j.provider.Quote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}
	if err := j.sink.UpdateQuote(ctx, symbol, q); err != nil {
		return fmt.Errorf("push quote: %w", err)
	}
	return nil
}

func bareKey(symbol string) string { return symbol }
