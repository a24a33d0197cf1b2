// Package marketaux implements a client for the Marketaux news API. One
// call covers the whole symbol universe; dedup of already-seen articles is
// the downstream news store's job, keyed by the article UUID.
package marketaux

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.marketaux.com/v1"
	// Marketaux expects published_after as minute-precision local time
	// with no zone suffix.
	publishedAfterFormat = "2006-01-02T15:04"
)

// Client fetches market news from Marketaux.
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

// WithAPIKey sets the API token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// Entity is a ticker mentioned in an article.
type Entity struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Exchange       string  `json:"exchange"`
	Country        string  `json:"country"`
	Type           string  `json:"type"`
	Industry       string  `json:"industry"`
	MatchScore     float64 `json:"match_score"`
	SentimentScore float64 `json:"sentiment_score"`
}

// Article is one news item. UUID is the external unique identifier the
// downstream store dedupes on.
type Article struct {
	UUID        string   `json:"uuid"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Snippet     string   `json:"snippet"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url"`
	Language    string   `json:"language"`
	PublishedAt string   `json:"published_at"`
	Source      string   `json:"source"`
	Entities    []Entity `json:"entities"`
}

// NewsResponse is the /news/all response.
type NewsResponse struct {
	Meta struct {
		Found    int `json:"found"`
		Returned int `json:"returned"`
		Limit    int `json:"limit"`
		Page     int `json:"page"`
	} `json:"meta"`
	Data []Article `json:"data"`
}

// News fetches articles mentioning any of the given symbols published
// after the given instant (UTC).
func (c *Client) News(ctx context.Context, symbols []string, publishedAfter time.Time, limit int) (*NewsResponse, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols cannot be empty")
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	params.Set("filter_entities", "true")
	params.Set("language", "en")
	params.Set("api_token", c.apiKey)
	if !publishedAfter.IsZero() {
		params.Set("published_after", publishedAfter.UTC().Format(publishedAfterFormat))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/news/all?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketaux request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketaux returned HTTP %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var nr NewsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("parse news response: %w", err)
	}
	return &nr, nil
}
