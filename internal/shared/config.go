package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv           string
	HTTPAddr         string
	MetricsAddr      string
	ReviewsCSV       string
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	CacheTTL         time.Duration
	ScoreConcurrency int
	MaxBodyBytes     int64
	RequestTimeout   time.Duration

	// ingestor
	APIBaseURL string
	IngestCSV  string
	Workers    int
	IngestRPS  int
}

func Load() Config {
	return Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         ":" + env("PORT", "8000"),
		MetricsAddr:      env("METRICS_ADDR", ""),
		ReviewsCSV:       env("REVIEWS_CSV", "data/reviews.csv"),
		RedisAddr:        env("REDIS_ADDR", ""),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		ScoreConcurrency: atoi("SCORE_CONCURRENCY", 8),
		MaxBodyBytes:     int64(atoi("MAX_BODY_BYTES", 1<<20)),
		RequestTimeout:   time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		APIBaseURL:       env("API_BASE_URL", "http://localhost:8000"),
		IngestCSV:        env("INGEST_CSV", ""),
		Workers:          atoi("INGEST_WORKERS", 4),
		IngestRPS:        atoi("INGEST_RPS", 5),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
