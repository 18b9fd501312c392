// Package config loads runtime settings from the environment. A .env file in
// the working directory is honored when present.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// DefaultTaxRate is applied to new quotes when the caller supplies none.
	DefaultTaxRate float64
	// DefaultMarginRate estimates profit on new quotes.
	DefaultMarginRate float64
	// CurrencyCode is used for rendered money values (e.g. "MXN").
	CurrencyCode string
	// WorkerQueueSize bounds the background quotation-update queue.
	WorkerQueueSize int
}

// Load reads the configuration from the environment, falling back to the
// application defaults. Missing .env files are not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: could not load .env: %v", err)
	}

	return Config{
		DefaultTaxRate:    envFloat("DQ_DEFAULT_TAX_RATE", 0.19),
		DefaultMarginRate: envFloat("DQ_DEFAULT_MARGIN_RATE", 0.30),
		CurrencyCode:      envString("DQ_CURRENCY", "MXN"),
		WorkerQueueSize:   envInt("DQ_WORKER_QUEUE_SIZE", 64),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return f
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return n
}
