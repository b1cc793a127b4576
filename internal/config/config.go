package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the worldd service configuration.
type Config struct {
	Port         string
	Environment  string
	LogLevel     slog.Level
	RedisURL     string
	TickInterval time.Duration
}

// ConsoleConfig holds the console client configuration.
type ConsoleConfig struct {
	WorldURL     string
	StreamURL    string
	FeedCapacity int
	Timeout      time.Duration
	Environment  string
	LogLevel     slog.Level
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:     getEnv("REDIS_URL", "localhost:6379"),
		TickInterval: parseDuration(getEnv("TICK_INTERVAL", "2s"), 2*time.Second),
	}
}

func LoadConsole() *ConsoleConfig {
	return &ConsoleConfig{
		WorldURL:     getEnv("WORLD_URL", "http://localhost:8080"),
		StreamURL:    getEnv("STREAM_URL", "ws://localhost:8080/v1/stream"),
		FeedCapacity: parseInt(getEnv("FEED_CAPACITY", "100"), 100),
		Timeout:      parseDuration(getEnv("REQUEST_TIMEOUT", "10s"), 10*time.Second),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
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

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
