package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPPort         int
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string

	// RefreshSecs is the background snapshot refresh cadence. It matches
	// the cache TTL so repeat page loads rarely trigger a live resolve.
	RefreshSecs  int
	CacheTTLSecs int

	// Per-call fetch budgets for the two resolvers.
	CryptoTimeoutMillis int
	FiatTimeoutMillis   int
	FetchMaxAttempts    int
	FetchRetryMillis    int

	SSHPort        int
	SSHHostKeyPath string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, snapshot history disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.RefreshSecs = 300
	if v := os.Getenv("RATES_REFRESH_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshSecs = n
		}
	}

	cfg.CacheTTLSecs = 300
	if v := os.Getenv("RATES_CACHE_TTL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSecs = n
		}
	}

	cfg.CryptoTimeoutMillis = 8000
	if v := strings.TrimSpace(os.Getenv("CRYPTO_FETCH_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CryptoTimeoutMillis = n
		}
	}

	cfg.FiatTimeoutMillis = 10000
	if v := strings.TrimSpace(os.Getenv("FIAT_FETCH_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FiatTimeoutMillis = n
		}
	}

	cfg.FetchMaxAttempts = 3
	if v := strings.TrimSpace(os.Getenv("FETCH_MAX_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FetchMaxAttempts = n
		}
	}

	cfg.FetchRetryMillis = 500
	if v := strings.TrimSpace(os.Getenv("FETCH_RETRY_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.FetchRetryMillis = n
		}
	}

	cfg.SSHPort = 2222
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/coinrates_host_key"
	}

	return cfg
}
