// Package finnhub implements a client for the Finnhub REST API, used for
// company profiles and analyst recommendation trends.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Client fetches company data from Finnhub.
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

// Profile is the /stock/profile2 response.
type Profile struct {
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	IPO                  string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Name                 string  `json:"name"`
	Phone                string  `json:"phone"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	Ticker               string  `json:"ticker"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
	Industry             string  `json:"finnhubIndustry"`
}

// Recommendation is one entry of the /stock/recommendation response.
type Recommendation struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongBuy  int    `json:"strongBuy"`
	StrongSell int    `json:"strongSell"`
}

// CompanyProfile fetches the company profile for a symbol.
func (c *Client) CompanyProfile(ctx context.Context, symbol string) (*Profile, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	body, err := c.get(ctx, "/stock/profile2", symbol)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parse profile response: %w", err)
	}
	if p.Ticker == "" && p.Name == "" {
		// Finnhub returns an empty object for unknown symbols.
		return nil, fmt.Errorf("no profile found for %s", symbol)
	}
	return &p, nil
}

// Recommendations fetches analyst recommendation trends for a symbol,
// newest period first.
func (c *Client) Recommendations(ctx context.Context, symbol string) ([]Recommendation, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	body, err := c.get(ctx, "/stock/recommendation", symbol)
	if err != nil {
		return nil, err
	}

	var recs []Recommendation
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("parse recommendation response: %w", err)
	}
	return recs, nil
}

func (c *Client) get(ctx context.Context, path, symbol string) ([]byte, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finnhub request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub returned HTTP %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
