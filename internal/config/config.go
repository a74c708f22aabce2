// Package config reads engine configuration from a .env file and the
// environment, with defaults that work out of the box.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/hypandra/spellbetternow/internal/rating"
)

type Config struct {
	// DBPath is the SQLite database file. Empty means the per-user default
	// under XDG_DATA_HOME.
	DBPath   string
	LogLevel string
	// MaxTier caps tier movement for every session.
	MaxTier int
	// RecencyWindow is how many recent attempts the selector's recency
	// filter considers.
	RecencyWindow int
	// MasteryRecencyDays is the day window of the selector's mastery bias.
	MasteryRecencyDays int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the engine still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		DBPath:             os.Getenv("SPELLBETTER_DB"),
		LogLevel:           envOr("SPELLBETTER_LOG_LEVEL", "INFO"),
		MaxTier:            envIntOr("SPELLBETTER_MAX_TIER", rating.MaxTier),
		RecencyWindow:      envIntOr("SPELLBETTER_RECENCY_WINDOW", 20),
		MasteryRecencyDays: envIntOr("SPELLBETTER_MASTERY_DAYS", 7),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
