// Package newsservice implements the client for the news persistence
// service's internal bulk ingest API. The news service dedupes articles
// by their Marketaux UUID, so overlapping rolling windows are safe.
package newsservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stockapp/crawlservice/internal/provider/marketaux"
)

// Client talks to the news service.
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

type bulkRequest struct {
	Articles []marketaux.Article `json:"articles"`
}

type bulkResponse struct {
	ProcessedCount int    `json:"processedCount"`
	Message        string `json:"message"`
}

// SaveNews pushes a batch of articles and returns how many the news
// service processed after dedup.
func (c *Client) SaveNews(ctx context.Context, articles []marketaux.Article) (int, error) {
	body, err := json.Marshal(bulkRequest{Articles: articles})
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/internal/news/bulk", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("newsservice request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return 0, fmt.Errorf("newsservice returned HTTP %d", res.StatusCode)
	}

	var resp bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("parse bulk response: %w", err)
	}
	return resp.ProcessedCount, nil
}
