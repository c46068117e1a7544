package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Auth (optional): bearer tokens are verified against this JWKS
	// endpoint when set; otherwise callers identify via the request body.
	JWKSURL string
	// Completion endpoint
	OpenAIAPIKey  string
	OpenAIBaseURL string
	DefaultModel  string
	// Admission gate
	RateLimitPermits        int
	RateLimitPeriod         time.Duration
	RateLimitAcquireTimeout time.Duration
	// Optional YAML file overriding chat limits
	LimitsFile string
	// Log files (stdout only when empty)
	LogDir string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		JWKSURL:     getEnv("JWKS_URL", ""),
		// Completion endpoint
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		DefaultModel:  getEnv("DEFAULT_MODEL", "gpt-3.5-turbo"),
		// Admission gate - bounds aggregate completion-call cost
		RateLimitPermits:        getEnvInt("RATE_LIMIT_PERMITS", 10),
		RateLimitPeriod:         getEnvDuration("RATE_LIMIT_PERIOD", time.Minute),
		RateLimitAcquireTimeout: getEnvDuration("RATE_LIMIT_ACQUIRE_TIMEOUT", 5*time.Second),
		LimitsFile:              getEnv("LIMITS_FILE", ""),
		LogDir:                  getEnv("LOG_DIR", ""),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
