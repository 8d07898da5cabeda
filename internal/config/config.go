package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// PriceFormat controls how estimates are presented to users.
type PriceFormat struct {
	Locale   string
	Currency string
	Unit     string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port             string
	PredictorBaseURL string
	PredictorTimeout time.Duration
	IDTokenAuth      bool
	RateLimitPredict RateLimitConfig
	SessionTTL       time.Duration
	SessionMax       int
	LogLevel         string
	LogFormat        string
	Price            PriceFormat
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		PredictorBaseURL: strings.TrimRight(getEnv("PREDICTOR_BASE_URL", "http://127.0.0.1:5000"), "/"),
		PredictorTimeout: parseDuration(getEnv("PREDICTOR_TIMEOUT", "0s"), 0),
		IDTokenAuth:      parseBool(getEnv("PREDICTOR_AUDIENCE_AUTH", "false")),
		SessionTTL:       parseDuration(getEnv("SESSION_TTL", "30m"), 30*time.Minute),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "json")),
		Price: PriceFormat{
			Locale:   getEnv("PRICE_LOCALE", "en-IN"),
			Currency: getEnv("PRICE_CURRENCY", "₹"),
			Unit:     getEnv("PRICE_UNIT", "Lakhs"),
		},
	}

	if cfg.PredictorBaseURL == "" {
		return nil, fmt.Errorf("PREDICTOR_BASE_URL must not be empty")
	}
	if cfg.PredictorTimeout < 0 {
		return nil, fmt.Errorf("invalid PREDICTOR_TIMEOUT value: %s", cfg.PredictorTimeout)
	}

	sessionMax, err := strconv.Atoi(getEnv("SESSION_MAX", "10000"))
	if err != nil || sessionMax <= 0 {
		return nil, fmt.Errorf("invalid SESSION_MAX value: %q", getEnv("SESSION_MAX", ""))
	}
	cfg.SessionMax = sessionMax

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_PREDICT", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PREDICT value: %w", err)
	}
	cfg.RateLimitPredict = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && v
}
