package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream API configuration.
	CensusBaseURL   string
	CensusAPIKey    string
	FredBaseURL     string
	FredAPIKey      string
	UpstreamTimeout time.Duration
	FetchCacheSize  int

	// Optional Kafka snapshot publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CensusBaseURL:   envOrDefault("CENSUS_BASE_URL", "https://api.census.gov/data"),
		CensusAPIKey:    os.Getenv("CENSUS_API_KEY"),
		FredBaseURL:     envOrDefault("FRED_BASE_URL", "https://api.stlouisfed.org/fred"),
		FredAPIKey:      os.Getenv("FRED_API_KEY"),
		UpstreamTimeout: upstreamTimeout,
		FetchCacheSize:  parseFetchCacheSize(),

		KafkaEnabled:       envOrDefault("KAFKA_ENABLED", "false") == "true",
		KafkaBrokers:       splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: envOrDefault("KAFKA_SNAPSHOT_TOPIC", "econdash-snapshots"),
	}

	if cfg.CensusBaseURL == "" {
		return nil, errors.New("CENSUS_BASE_URL is required")
	}
	if cfg.FredBaseURL == "" {
		return nil, errors.New("FRED_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SNAPSHOT_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseFetchCacheSize() int {
	if s := os.Getenv("FETCH_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
