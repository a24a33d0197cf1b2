// Package stockservice implements the client for the stock persistence
// service's internal ingest API. It is the ingestion sink for quotes,
// historical prices, company profiles and recommendations, and the
// source of the latest-persisted-date query driving incremental backfill.
package stockservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stockapp/crawlservice/internal/provider/finnhub"
	"github.com/stockapp/crawlservice/internal/provider/twelvedata"
)

const dateFormat = "2006-01-02"

// Client talks to the stock service.
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: baseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithClient sets the HTTP client.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

type profileRequest struct {
	Symbol  string           `json:"symbol"`
	Profile *finnhub.Profile `json:"profile"`
}

type historicalRequest struct {
	Symbol string                   `json:"symbol"`
	Meta   twelvedata.SeriesMeta    `json:"meta"`
	Values []twelvedata.SeriesValue `json:"values"`
}

type quoteRequest struct {
	Symbol string            `json:"symbol"`
	Quote  *twelvedata.Quote `json:"quote"`
}

type recommendationsRequest struct {
	Symbol          string                   `json:"symbol"`
	Recommendations []finnhub.Recommendation `json:"recommendations"`
}

type latestDateResponse struct {
	Symbol     string `json:"symbol"`
	LatestDate string `json:"latestDate"`
}

// SaveProfile upserts a company profile.
func (c *Client) SaveProfile(ctx context.Context, symbol string, p *finnhub.Profile) error {
	return c.post(ctx, "/api/internal/companies/profile", profileRequest{Symbol: symbol, Profile: p})
}

// SaveHistoricalPrices bulk-saves daily bars for a symbol. The stock
// service dedupes on (symbol, date), so re-sent bars are harmless.
func (c *Client) SaveHistoricalPrices(ctx context.Context, symbol string, meta twelvedata.SeriesMeta, values []twelvedata.SeriesValue) error {
	return c.post(ctx, "/api/internal/historical/bulk", historicalRequest{Symbol: symbol, Meta: meta, Values: values})
}

// UpdateQuote upserts the latest daily quote for a symbol.
func (c *Client) UpdateQuote(ctx context.Context, symbol string, q *twelvedata.Quote) error {
	return c.post(ctx, "/api/internal/quotes/update", quoteRequest{Symbol: symbol, Quote: q})
}

// SaveRecommendations bulk-saves analyst recommendation trends.
func (c *Client) SaveRecommendations(ctx context.Context, symbol string, recs []finnhub.Recommendation) error {
	return c.post(ctx, "/api/internal/recommendations/bulk", recommendationsRequest{Symbol: symbol, Recommendations: recs})
}

// LatestHistoricalDate returns the most recent persisted price date for a
// symbol, or the zero time when the stock service has no data for it.
func (c *Client) LatestHistoricalDate(ctx context.Context, symbol string) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/internal/historical/latest/"+symbol, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("build request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("stockservice request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("stockservice returned HTTP %d", res.StatusCode)
	}

	var body latestDateResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return time.Time{}, fmt.Errorf("parse latest date response: %w", err)
	}
	if body.LatestDate == "" {
		return time.Time{}, nil
	}

	d, err := time.Parse(dateFormat, body.LatestDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse latest date %q: %w", body.LatestDate, err)
	}
	return d, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("stockservice request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("stockservice returned HTTP %d for %s", res.StatusCode, path)
	}
	return nil
}
