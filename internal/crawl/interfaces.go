package crawl

import (
	"context"
	"time"

	"github.com/stockapp/crawlservice/internal/provider/finnhub"
	"github.com/stockapp/crawlservice/internal/provider/marketaux"
	"github.com/stockapp/crawlservice/internal/provider/twelvedata"
)

// Provider contracts. Implementations live in internal/provider; jobs
// depend only on the method they call.

type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*twelvedata.Quote, error)
}

type SeriesProvider interface {
	TimeSeries(ctx context.Context, symbol string, from, to time.Time) (*twelvedata.TimeSeries, error)
}

type ProfileProvider interface {
	CompanyProfile(ctx context.Context, symbol string) (*finnhub.Profile, error)
}

type RecommendationProvider interface {
	Recommendations(ctx context.Context, symbol string) ([]finnhub.Recommendation, error)
}

type NewsProvider interface {
	News(ctx context.Context, symbols []string, publishedAfter time.Time, limit int) (*marketaux.NewsResponse, error)
}

// Sink contracts: the downstream persistence services. A sink error fails
// the unit of work even when the fetch succeeded.

type StockSink interface {
	UpdateQuote(ctx context.Context, symbol string, q *twelvedata.Quote) error
	SaveProfile(ctx context.Context, symbol string, p *finnhub.Profile) error
	SaveRecommendations(ctx context.Context, symbol string, recs []finnhub.Recommendation) error
	SaveHistoricalPrices(ctx context.Context, symbol string, meta twelvedata.SeriesMeta, values []twelvedata.SeriesValue) error
	// LatestHistoricalDate returns the most recent persisted date for a
	// symbol, or the zero time when the store has no data for it.
	LatestHistoricalDate(ctx context.Context, symbol string) (time.Time, error)
}

type NewsSink interface {
	// SaveNews pushes a batch of articles and returns the number the
	// downstream service processed after dedup.
	SaveNews(ctx context.Context, articles []marketaux.Article) (int, error)
}
