// Package twelvedata implements a client for the Twelve Data REST API,
// used for latest quotes and daily historical time series. The API reports
// some errors in-band with HTTP 200 and a non-"ok" status field, so both
// paths are checked.
package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.twelvedata.com"
	dateFormat     = "2006-01-02"
	// Maximum data points per request; enough for a full daily backfill
	// from 2015 in a single call.
	outputSize = 5000
)

// Client fetches quote and time-series data from Twelve Data.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a Client with the given options applied.
func New(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
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

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// Quote is the /quote response. Twelve Data returns numeric fields as
// strings; they are forwarded downstream as-is.
type Quote struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Datetime      string `json:"datetime"`
	Timestamp     int64  `json:"timestamp"`
	Open          string `json:"open"`
	High          string `json:"high"`
	Low           string `json:"low"`
	Close         string `json:"close"`
	Volume        string `json:"volume"`
	PreviousClose string `json:"previous_close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
	AverageVolume string `json:"average_volume"`
	IsMarketOpen  bool   `json:"is_market_open"`
}

// SeriesValue is one bar of a time series.
type SeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// SeriesMeta describes the instrument a time series belongs to.
type SeriesMeta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// TimeSeries is the /time_series response.
type TimeSeries struct {
	Meta   SeriesMeta    `json:"meta"`
	Values []SeriesValue `json:"values"`
	Status string        `json:"status"`
}

// apiError is the in-band error envelope returned with status != "ok".
type apiError struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Quote fetches the latest quote for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)
	params.Set("format", "JSON")

	body, err := c.get(ctx, "/quote", params)
	if err != nil {
		return nil, err
	}

	if err := checkAPIError(body); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	var q Quote
	if err := json.Unmarshal(body, &q); err != nil {
		return nil, fmt.Errorf("parse quote response: %w", err)
	}
	return &q, nil
}

// TimeSeries fetches daily bars for a symbol over the given date range,
// inclusive on both ends.
func (c *Client) TimeSeries(ctx context.Context, symbol string, from, to time.Time) (*TimeSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}
	if from.IsZero() {
		return nil, fmt.Errorf("start date cannot be empty")
	}
	if from.After(to) {
		return nil, fmt.Errorf("start date cannot be after end date")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1day")
	params.Set("start_date", from.Format(dateFormat))
	params.Set("end_date", to.Format(dateFormat))
	params.Set("outputsize", strconv.Itoa(outputSize))
	params.Set("apikey", c.apiKey)
	params.Set("format", "JSON")

	body, err := c.get(ctx, "/time_series", params)
	if err != nil {
		return nil, err
	}

	if err := checkAPIError(body); err != nil {
		return nil, fmt.Errorf("time series %s: %w", symbol, err)
	}

	var ts TimeSeries
	if err := json.Unmarshal(body, &ts); err != nil {
		return nil, fmt.Errorf("parse time series response: %w", err)
	}
	return &ts, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twelvedata request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twelvedata returned HTTP %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func checkAPIError(body []byte) error {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return nil // not the error envelope
	}
	if e.Status != "" && e.Status != "ok" {
		return fmt.Errorf("twelvedata error %d: %s", e.Code, e.Message)
	}
	return nil
}
