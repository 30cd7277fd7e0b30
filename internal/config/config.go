package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Telegram
	BotToken    string
	PollTimeout time.Duration

	// Database
	SQLiteDBPath string

	// Update handling
	HandlerWorkers int

	// Dialogue sessions
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		BotToken:    getEnv("BOT_TOKEN", ""),
		PollTimeout: getEnvDuration("POLL_TIMEOUT", 60*time.Second),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),

		HandlerWorkers: getEnvInt("HANDLER_WORKERS", 8),

		SessionTTL:           getEnvDuration("SESSION_TTL", 15*time.Minute),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.BotToken == "" {
		errors = append(errors, "BOT_TOKEN is required")
	}

	if c.PollTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid poll timeout %v: must be at least 1 second", c.PollTimeout))
	} else if c.PollTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid poll timeout %v: must be at most 5 minutes", c.PollTimeout))
	}

	// The database directory is created by the storage layer on open;
	// validation only checks the path is set.
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.HandlerWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid handler workers %d: must be at least 1", c.HandlerWorkers))
	} else if c.HandlerWorkers > 256 {
		errors = append(errors, fmt.Sprintf("invalid handler workers %d: must be at most 256", c.HandlerWorkers))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionSweepInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid session sweep interval %v: must be at least 1 second", c.SessionSweepInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
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
