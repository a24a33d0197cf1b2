package config

import (
	"os"
	"strings"
	"time"
)

// Config carries all environment-supplied settings. Cron specs are
// standard 5-field expressions evaluated in UTC.
type Config struct {
	Port   string
	DBPath string

	// Symbols is the configured universe, fanned out over in order.
	Symbols []string

	TwelveDataBaseURL string
	TwelveDataAPIKey  string
	FinnhubBaseURL    string
	FinnhubAPIKey     string
	MarketauxBaseURL  string
	MarketauxAPIKey   string

	StockServiceURL string
	NewsServiceURL  string

	HistoricalSchedule     string
	QuoteSchedule          string
	NewsSchedule           string
	ProfileSchedule        string
	RecommendationSchedule string

	// HistoricalStartDate is the provider's minimum supported date, used
	// as the from-bound of a cold-start full backfill.
	HistoricalStartDate time.Time
	BackfillOnStart     bool

	NewsLookback time.Duration
	NewsLimit    int

	SymbolPace         time.Duration
	RecommendationPace time.Duration
}

func Load() Config {
	return Config{
		Port:   getEnv("PORT", "8084"),
		DBPath: getEnv("DB_PATH", "crawl.db"),

		Symbols: splitList(getEnv("STOCK_SYMBOLS", "AAPL,NVDA,MSFT,AMZN,GOOGL,META,TSLA")),

		TwelveDataBaseURL: getEnv("TWELVEDATA_BASE_URL", "https://api.twelvedata.com"),
		TwelveDataAPIKey:  getEnv("TWELVEDATA_API_KEY", ""),
		FinnhubBaseURL:    getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		FinnhubAPIKey:     getEnv("FINNHUB_API_KEY", ""),
		MarketauxBaseURL:  getEnv("MARKETAUX_BASE_URL", "https://api.marketaux.com/v1"),
		MarketauxAPIKey:   getEnv("MARKETAUX_API_KEY", ""),

		StockServiceURL: getEnv("STOCK_SERVICE_URL", "http://stockservice:8083"),
		NewsServiceURL:  getEnv("NEWS_SERVICE_URL", "http://newsservice:8082"),

		HistoricalSchedule:     getEnv("SCHEDULE_HISTORICAL", "0 6 * * *"),
		QuoteSchedule:          getEnv("SCHEDULE_QUOTE", "0 21 * * *"),
		NewsSchedule:           getEnv("SCHEDULE_NEWS", "0 10,15,21 * * *"),
		ProfileSchedule:        getEnv("SCHEDULE_PROFILE", "0 3 * * MON"),
		RecommendationSchedule: getEnv("SCHEDULE_RECOMMENDATION", "0 2 * * MON"),

		HistoricalStartDate: getEnvDate("HISTORICAL_START_DATE", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)),
		BackfillOnStart:     getEnv("BACKFILL_ON_START", "true") == "true",

		NewsLookback: getEnvDuration("NEWS_LOOKBACK", 8*time.Hour),
		NewsLimit:    getEnvInt("NEWS_LIMIT", 100),

		SymbolPace:         getEnvDuration("SYMBOL_PACE", time.Second),
		RecommendationPace: getEnvDuration("RECOMMENDATION_PACE", 2*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvDate(key string, fallback time.Time) time.Time {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
