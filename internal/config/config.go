package config

import (
	"os"
	"time"
)

type Config struct {
	// HTTP configuration
	HTTPAddr     string
	AllowOrigins []string

	// NATS configuration (optional ingress; disabled when URL is empty)
	NatsURL         string
	NatsChatSubject string
	NatsTimeout     time.Duration

	// Gemini configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Session memory
	RedisURL   string
	SessionTTL time.Duration

	// Postgres
	DatabaseURL string

	// Service configuration
	ServiceName string
	LogMode     string
}

func Load() *Config {
	return &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		AllowOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},

		NatsURL:         getEnv("NATS_URL", ""),
		NatsChatSubject: getEnv("NATS_CHAT_SUBJECT", "trip.chat"),
		NatsTimeout:     getDurationEnv("NATS_TIMEOUT", 30*time.Second),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeout: getDurationEnv("GEMINI_TIMEOUT", 30*time.Second),

		RedisURL:   getEnv("REDIS_URL", ""),
		SessionTTL: getDurationEnv("SESSION_TTL", 30*time.Minute),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		ServiceName: getEnv("SERVICE_NAME", "nova-travel"),
		LogMode:     getEnv("LOG_MODE", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
