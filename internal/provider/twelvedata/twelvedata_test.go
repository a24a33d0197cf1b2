package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestQuote(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"symbol": "AAPL",
			"name": "Apple Inc",
			"exchange": "NASDAQ",
			"currency": "USD",
			"datetime": "2024-01-02",
			"close": "185.64",
			"previous_close": "184.25",
			"percent_change": "0.754",
			"is_market_open": false
		}`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithAPIKey("test-key"))

	q, err := client.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", q.Symbol)
	}
	if q.Close != "185.64" {
		t.Errorf("expected close 185.64, got %s", q.Close)
	}
	if !strings.Contains(gotQuery, "apikey=test-key") {
		t.Errorf("api key missing from query: %s", gotQuery)
	}
}

func TestQuote_EmptySymbol(t *testing.T) {
	client := New()
	if _, err := client.Quote(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}

func TestQuote_InBandError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Twelve Data reports rate limiting with HTTP 200.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","code":429,"message":"You have run out of API credits"}`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))

	_, err := client.Quote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for non-ok status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected the API code in the error, got: %v", err)
	}
}

func TestTimeSeries(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/time_series" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"meta": {"symbol": "AAPL", "interval": "1day", "currency": "USD"},
			"values": [
				{"datetime": "2024-01-03", "open": "184.22", "close": "184.25", "volume": "58414500"},
				{"datetime": "2024-01-02", "open": "187.15", "close": "185.64", "volume": "82488700"}
			],
			"status": "ok"
		}`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithAPIKey("test-key"))

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	ts, err := client.TimeSeries(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("time series: %v", err)
	}

	if len(ts.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(ts.Values))
	}
	if ts.Meta.Symbol != "AAPL" {
		t.Errorf("expected meta symbol AAPL, got %s", ts.Meta.Symbol)
	}
	if gotQuery["interval"] != "1day" {
		t.Errorf("expected interval=1day, got %s", gotQuery["interval"])
	}
	if gotQuery["start_date"] != "2024-01-02" || gotQuery["end_date"] != "2024-01-03" {
		t.Errorf("unexpected date range: %s..%s", gotQuery["start_date"], gotQuery["end_date"])
	}
	if gotQuery["outputsize"] != "5000" {
		t.Errorf("expected outputsize=5000, got %s", gotQuery["outputsize"])
	}
}

func TestTimeSeries_InvalidRange(t *testing.T) {
	client := New()
	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := client.TimeSeries(context.Background(), "AAPL", from, to); err == nil {
		t.Fatal("expected error when start date is after end date")
	}
	if _, err := client.TimeSeries(context.Background(), "AAPL", time.Time{}, to); err == nil {
		t.Fatal("expected error for zero start date")
	}
}

func TestTimeSeries_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if _, err := client.TimeSeries(context.Background(), "AAPL", from, from); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
