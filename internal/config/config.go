package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string

	LLMProvider      string
	XAIAPIKey        string
	AnthropicAPIKey  string
	ModelName        string
	SummaryModelName string

	// OwnerID identifies the single implicit profile. Injected here so
	// nothing downstream hardcodes a tenant.
	OwnerID string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		LLMProvider:      getEnv("LLM_PROVIDER", "xai"),
		XAIAPIKey:        getEnv("XAI_API_KEY", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:        getEnv("MODEL_NAME", "grok-3-latest"),
		SummaryModelName: getEnv("SUMMARY_MODEL_NAME", ""),

		OwnerID: getEnv("OWNER_ID", "default-profile"),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
