package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Z-API outbound WhatsApp transport
	ZAPIBaseURL     string
	ZAPIInstanceID  string
	ZAPIToken       string
	ZAPIClientToken string
	ZAPISendTimeout time.Duration

	// Catalog source; empty falls back to the built-in list
	PriceListPath string

	// Conversation behaviour
	SessionIdleTimeout time.Duration
	SessionTTL         time.Duration
	OpenDatesCacheTTL  time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ZAPIBaseURL:     getEnv("ZAPI_BASE_URL", "https://api.z-api.io"),
		ZAPIInstanceID:  getEnv("ZAPI_INSTANCE_ID", ""),
		ZAPIToken:       getEnv("ZAPI_TOKEN", ""),
		ZAPIClientToken: getEnv("ZAPI_CLIENT_TOKEN", ""),
		ZAPISendTimeout: getEnvAsDuration("ZAPI_SEND_TIMEOUT", 10*time.Second),

		PriceListPath: getEnv("PRICE_LIST_PATH", ""),

		SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		OpenDatesCacheTTL:  getEnvAsDuration("OPEN_DATES_CACHE_TTL", 5*time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
