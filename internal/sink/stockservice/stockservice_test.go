package stockservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stockapp/crawlservice/internal/provider/finnhub"
	"github.com/stockapp/crawlservice/internal/provider/twelvedata"
)

func TestSaveHistoricalPrices(t *testing.T) {
	var got historicalRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/internal/historical/bulk" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New(server.URL)

	values := []twelvedata.SeriesValue{
		{Datetime: "2024-01-02", Open: "187.15", Close: "185.64", Volume: "82488700"},
	}
	meta := twelvedata.SeriesMeta{Symbol: "AAPL", Interval: "1day", Currency: "USD"}
	if err := client.SaveHistoricalPrices(context.Background(), "AAPL", meta, values); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", got.Symbol)
	}
	if len(got.Values) != 1 || got.Values[0].Close != "185.64" {
		t.Errorf("unexpected values: %+v", got.Values)
	}
}

func TestUpdateQuote_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL)

	err := client.UpdateQuote(context.Background(), "AAPL", &twelvedata.Quote{Symbol: "AAPL"})
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestSaveProfile(t *testing.T) {
	var got profileRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/internal/companies/profile" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL)

	p := &finnhub.Profile{Ticker: "AAPL", Name: "Apple Inc", Industry: "Technology"}
	if err := client.SaveProfile(context.Background(), "AAPL", p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got.Profile == nil || got.Profile.Industry != "Technology" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestSaveRecommendations(t *testing.T) {
	var got recommendationsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/internal/recommendations/bulk" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL)

	recs := []finnhub.Recommendation{{Symbol: "AAPL", Period: "2024-01-01", Buy: 24}}
	if err := client.SaveRecommendations(context.Background(), "AAPL", recs); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0].Buy != 24 {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestLatestHistoricalDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/internal/historical/latest/AAPL" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"AAPL","latestDate":"2024-01-10"}`))
	}))
	defer server.Close()

	client := New(server.URL)

	d, err := client.LatestHistoricalDate(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("latest date: %v", err)
	}
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("expected %v, got %v", want, d)
	}
}

func TestLatestHistoricalDate_NoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"NEWCO","latestDate":""}`))
	}))
	defer server.Close()

	client := New(server.URL)

	d, err := client.LatestHistoricalDate(context.Background(), "NEWCO")
	if err != nil {
		t.Fatalf("latest date: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("expected zero time for a symbol with no data, got %v", d)
	}
}
