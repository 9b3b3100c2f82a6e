package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// External APIs
	SEC   SECConfig
	Yahoo YahooConfig

	// Pipeline
	Ingest  IngestConfig
	Scoring ScoringConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// SECConfig holds SEC EDGAR configuration.
// The SEC requires a descriptive User-Agent with a contact address and
// caps automated traffic at 10 requests per second.
type SECConfig struct {
	BaseURL        string // www.sec.gov (tickers file, archives)
	DataBaseURL    string // data.sec.gov (submissions API)
	UserAgent      string
	RequestsPerSec int
}

// YahooConfig holds Yahoo Finance chart API configuration.
type YahooConfig struct {
	BaseURL string
}

// IngestConfig holds filing-ingestion configuration.
type IngestConfig struct {
	Tickers     []string // tickers to track
	FilingLimit int      // max recent Form 4 filings per ticker
}

// ScoringConfig holds alpha-scoring configuration.
type ScoringConfig struct {
	BenchmarkTicker string // market benchmark, SPY by default
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// External APIs
		SEC: SECConfig{
			BaseURL:        getEnv("SEC_BASE_URL", "https://www.sec.gov"),
			DataBaseURL:    getEnv("SEC_DATA_BASE_URL", "https://data.sec.gov"),
			UserAgent:      getEnv("SEC_USER_AGENT", "InsiderAlpha/1.0 (admin@insideralpha.dev)"),
			RequestsPerSec: getEnvAsInt("SEC_REQUESTS_PER_SEC", 10),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		// Pipeline
		Ingest: IngestConfig{
			Tickers:     getEnvAsList("INGEST_TICKERS", "AAPL,TSLA,MSFT,NVDA,META"),
			FilingLimit: getEnvAsInt("INGEST_FILING_LIMIT", 40),
		},

		Scoring: ScoringConfig{
			BenchmarkTicker: getEnv("BENCHMARK_TICKER", "SPY"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Ingest.Tickers) == 0 {
		return fmt.Errorf("INGEST_TICKERS must contain at least one ticker")
	}

	if c.SEC.RequestsPerSec <= 0 || c.SEC.RequestsPerSec > 10 {
		return fmt.Errorf("SEC_REQUESTS_PER_SEC must be between 1 and 10")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			list = append(list, p)
		}
	}
	return list
}
