package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderStooq        = "stooq"
	ProviderAlphaVantage = "alpha_vantage"
)

type Config struct {
	Port                 string
	Environment          string
	FinanceProvider      string
	FinanceAPIKey        string
	FinanceBaseURL       string
	AllowedOrigins       string
	UniverseFile         string
	SymbolsDir           string
	MaxConcurrentFetches int
	FetchTimeout         time.Duration
}

func Load() *Config {
	// Load .env if present; process env wins otherwise
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "production"),
		FinanceProvider:      strings.ToLower(getEnv("FINANCE_API_PROVIDER", ProviderStooq)),
		FinanceAPIKey:        getEnv("FINANCE_API_KEY", ""),
		FinanceBaseURL:       getEnv("FINANCE_API_BASE_URL", ""),
		AllowedOrigins:       getEnv("ALLOWED_ORIGINS", "*"),
		UniverseFile:         getEnv("UNIVERSE_FILE", "config/universes.yaml"),
		SymbolsDir:           getEnv("SYMBOLS_DIR", "data/symbols"),
		MaxConcurrentFetches: getEnvInt("MAX_CONCURRENT_FETCHES", 10),
		FetchTimeout:         time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
