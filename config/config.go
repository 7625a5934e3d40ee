package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	SessionStore           string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	SessionRetention       time.Duration
	SessionCleanupInterval time.Duration
	SessionTimeout         time.Duration

	QuoteRequestTimeout   time.Duration
	QuoteMinLatency       time.Duration
	QuoteMaxLatency       time.Duration
	NegotiationMinLatency time.Duration
	NegotiationMaxLatency time.Duration
	QuoteFailureRate      float64
	NegotiateTerms        bool
	RandomSeed            uint64

	ValuationCacheSize int
	ValuationCacheTTL  time.Duration

	RateLimitCapacity int
	RateLimitWindow   time.Duration
	// TrustedProxies may set X-Forwarded-For. Empty means the client address
	// is always the connection's remote address.
	TrustedProxies []string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "local"),

		SessionStore:           strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		SessionRetention:       getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionCleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", 30*time.Minute),
		SessionTimeout:         getEnvDuration("SESSION_TIMEOUT", 2*time.Minute),

		QuoteRequestTimeout:   getEnvDuration("QUOTE_REQUEST_TIMEOUT", 15*time.Second),
		QuoteMinLatency:       getEnvDuration("QUOTE_MIN_LATENCY", 2*time.Second),
		QuoteMaxLatency:       getEnvDuration("QUOTE_MAX_LATENCY", 8*time.Second),
		NegotiationMinLatency: getEnvDuration("NEGOTIATION_MIN_LATENCY", time.Second),
		NegotiationMaxLatency: getEnvDuration("NEGOTIATION_MAX_LATENCY", 3*time.Second),
		QuoteFailureRate:      getEnvFloat("QUOTE_FAILURE_RATE", 0),
		NegotiateTerms:        getEnvBool("NEGOTIATE_TERMS", false),
		RandomSeed:            uint64(getEnvInt("RANDOM_SEED", 0)),

		ValuationCacheSize: getEnvInt("VALUATION_CACHE_SIZE", 512),
		ValuationCacheTTL:  getEnvDuration("VALUATION_CACHE_TTL", 24*time.Hour),

		RateLimitCapacity: getEnvInt("RATE_LIMIT_CAPACITY", 5),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		TrustedProxies:    getEnvList("TRUSTED_PROXIES"),
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

// UsesRedis reports whether sessions and caches live in Redis.
func (c Config) UsesRedis() bool {
	return c.SessionStore == "redis"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		n := strings.ToLower(strings.TrimSpace(v))
		return n == "1" || n == "true" || n == "yes"
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
