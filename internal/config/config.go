package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	LogLevel    slog.Level

	// DefaultStrategy applies to blank tenants and unconfigured queues.
	DefaultStrategy  string
	StrategyCacheTTL time.Duration
	// StrategyFile is an optional YAML tenant strategy table consulted before
	// the database.
	StrategyFile string

	AMQPURL      string
	AMQPExchange string

	// OfflineGrace is how long a dropped MCP session may reconnect before the
	// agent is marked offline.
	OfflineGrace time.Duration
}

func Load() (Config, error) {
	// Optional: load local .env for development. Missing file is fine.
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Port:             getenvDefault("PORT", "8080"),
		LogLevel:         parseLevel(os.Getenv("LOG_LEVEL")),
		DefaultStrategy:  getenvDefault("ASSIGN_DEFAULT_STRATEGY", "round_robin"),
		StrategyCacheTTL: getenvMillis("ASSIGN_STRATEGY_CACHE_TTL_MS", 5000*time.Millisecond),
		StrategyFile:     strings.TrimSpace(os.Getenv("ASSIGN_STRATEGY_FILE")),
		AMQPURL:          strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:     getenvDefault("AMQP_EXCHANGE", "support.assignments"),
		OfflineGrace:     getenvSeconds("AGENT_OFFLINE_GRACE_SECONDS", 30*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL not set")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getenvMillis reads an integer-milliseconds env var.
// Falls back to defaultVal if the var is unset or invalid.
func getenvMillis(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}

// getenvSeconds reads an integer-seconds env var.
func getenvSeconds(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

func parseLevel(v string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
