package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// RedisURL enables the shared Redis cache backend when set; the
	// in-process store is used otherwise.
	RedisURL string

	CacheTTL         time.Duration
	NegativeTTL      time.Duration
	FetchTimeout     time.Duration
	ValidateDeadline time.Duration
	RetryMax         int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:             envString("INVOICEGUARD_ADDR", ":8080"),
		RedisURL:         os.Getenv("INVOICEGUARD_REDIS_URL"),
		CacheTTL:         envDuration("INVOICEGUARD_CACHE_TTL", 15*time.Minute),
		NegativeTTL:      envDuration("INVOICEGUARD_NEGATIVE_TTL", time.Minute),
		FetchTimeout:     envDuration("INVOICEGUARD_FETCH_TIMEOUT", 5*time.Second),
		ValidateDeadline: envDuration("INVOICEGUARD_VALIDATE_DEADLINE", 10*time.Second),
		RetryMax:         envInt("INVOICEGUARD_RETRY_MAX", 3),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
