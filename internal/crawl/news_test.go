package crawl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stockapp/crawlservice/internal/provider/marketaux"
)

type fakeNewsProvider struct {
	gotSymbols []string
	gotAfter   time.Time
	gotLimit   int
	articles   []marketaux.Article
	err        error
}

func (f *fakeNewsProvider) News(_ context.Context, symbols []string, publishedAfter time.Time, limit int) (*marketaux.NewsResponse, error) {
	f.gotSymbols = symbols
	f.gotAfter = publishedAfter
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return &marketaux.NewsResponse{Data: f.articles}, nil
}

type fakeNewsSink struct {
	saved []marketaux.Article
	err   error
}

func (f *fakeNewsSink) SaveNews(_ context.Context, articles []marketaux.Article) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, articles...)
	return len(articles), nil
}

func TestNewsJob_RollingWindow(t *testing.T) {
	repo := newMockRepo()
	provider := &fakeNewsProvider{articles: []marketaux.Article{
		{UUID: "a1", Title: "Apple ships"},
		{UUID: "a2", Title: "Nvidia pops"},
	}}
	sink := &fakeNewsSink{}

	job := NewNewsJob(NewRunner(NewTracker(repo)), []string{"AAPL", "NVDA"}, provider, sink, 8*time.Hour, 100)
	job.now = func() time.Time { return time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC) }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	if !provider.gotAfter.Equal(want) {
		t.Errorf("expected publishedAfter %v, got %v", want, provider.gotAfter)
	}
	if provider.gotLimit != 100 {
		t.Errorf("expected limit 100, got %d", provider.gotLimit)
	}
	if len(sink.saved) != 2 {
		t.Errorf("expected 2 articles forwarded, got %d", len(sink.saved))
	}

	s := repo.get(KeyNewsAll)
	if s == nil || s.Status != StatusSucceeded {
		t.Errorf("expected %s SUCCEEDED, got %+v", KeyNewsAll, s)
	}
}

func TestNewsJob_EmptyWindowIsSuccess(t *testing.T) {
	repo := newMockRepo()
	sink := &fakeNewsSink{}
	job := NewNewsJob(NewRunner(NewTracker(repo)), []string{"AAPL"}, &fakeNewsProvider{}, sink, 8*time.Hour, 100)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.saved) != 0 {
		t.Error("no articles should have been pushed")
	}
	if repo.get(KeyNewsAll).Status != StatusSucceeded {
		t.Error("an empty window is a success, not a failure")
	}
}

func TestNewsJob_ProviderErrorMarksFailed(t *testing.T) {
	repo := newMockRepo()
	provider := &fakeNewsProvider{err: errors.New("marketaux returned HTTP 500")}
	job := NewNewsJob(NewRunner(NewTracker(repo)), []string{"AAPL"}, provider, &fakeNewsSink{}, 8*time.Hour, 100)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	s := repo.get(KeyNewsAll)
	if s.Status != StatusFailed || s.ErrorLog == "" {
		t.Errorf("expected FAILED with error log, got %+v", s)
	}
}
