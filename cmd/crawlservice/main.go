package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stockapp/crawlservice/internal/config"
	"github.com/stockapp/crawlservice/internal/crawl"
	"github.com/stockapp/crawlservice/internal/platform/sqlite"
	"github.com/stockapp/crawlservice/internal/provider/finnhub"
	"github.com/stockapp/crawlservice/internal/provider/marketaux"
	"github.com/stockapp/crawlservice/internal/provider/twelvedata"
	crawlrepo "github.com/stockapp/crawlservice/internal/repository/crawl"
	"github.com/stockapp/crawlservice/internal/scheduler"
	"github.com/stockapp/crawlservice/internal/server"
	"github.com/stockapp/crawlservice/internal/sink/newsservice"
	"github.com/stockapp/crawlservice/internal/sink/stockservice"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// Root context: cancelled on SIGINT/SIGTERM so in-flight crawl runs
	// stop promptly during graceful shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Job state store
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	tracker := crawl.NewTracker(crawlrepo.NewRepository(db.DB))
	runner := crawl.NewRunner(tracker)

	// Provider clients
	twelveData := twelvedata.New(
		twelvedata.WithBaseURL(cfg.TwelveDataBaseURL),
		twelvedata.WithAPIKey(cfg.TwelveDataAPIKey),
	)
	finnhubClient := finnhub.New(
		finnhub.WithBaseURL(cfg.FinnhubBaseURL),
		finnhub.WithAPIKey(cfg.FinnhubAPIKey),
	)
	marketauxClient := marketaux.New(
		marketaux.WithBaseURL(cfg.MarketauxBaseURL),
		marketaux.WithAPIKey(cfg.MarketauxAPIKey),
	)

	// Ingestion sinks
	stockSink := stockservice.New(cfg.StockServiceURL)
	newsSink := newsservice.New(cfg.NewsServiceURL)

	// Jobs
	historicalJob := crawl.NewHistoricalJob(runner, cfg.Symbols, twelveData, finnhubClient, stockSink, cfg.HistoricalStartDate, cfg.SymbolPace)
	quoteJob := crawl.NewQuoteJob(runner, cfg.Symbols, twelveData, stockSink, cfg.SymbolPace)
	newsJob := crawl.NewNewsJob(runner, cfg.Symbols, marketauxClient, newsSink, cfg.NewsLookback, cfg.NewsLimit)
	profileJob := crawl.NewProfileJob(runner, cfg.Symbols, finnhubClient, stockSink, cfg.SymbolPace)
	recommendationJob := crawl.NewRecommendationJob(runner, cfg.Symbols, finnhubClient, stockSink, cfg.RecommendationPace)

	jobs := []scheduler.Job{historicalJob, quoteJob, newsJob, profileJob, recommendationJob}

	// Scheduler
	sched := scheduler.New(rootCtx)
	for _, reg := range []struct {
		spec string
		job  scheduler.Job
	}{
		{cfg.HistoricalSchedule, historicalJob},
		{cfg.QuoteSchedule, quoteJob},
		{cfg.NewsSchedule, newsJob},
		{cfg.ProfileSchedule, profileJob},
		{cfg.RecommendationSchedule, recommendationJob},
	} {
		if err := sched.Add(reg.spec, reg.job); err != nil {
			slog.Error("failed to register job", "error", err)
			os.Exit(1)
		}
	}
	sched.Start()

	// Seed the downstream store before the first scheduled firing.
	if cfg.BackfillOnStart {
		sched.RunNow(historicalJob)
	}

	// HTTP server: health, job-state read API, manual triggers.
	srv := server.New(rootCtx, cfg.Port, tracker, sched, jobs)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("crawl service started", "port", cfg.Port, "symbols", len(cfg.Symbols))
	<-done

	// Cancel root context first so in-flight crawl runs wind down, then
	// stop future firings and drain connections with a deadline.
	rootCancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("crawl service stopped")
}
