package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every tunable for the evaluation core. Construct it with
// Default and override fields as needed; all services take it by pointer at
// construction time.
type Config struct {
	// Base URL for the remote tablebase service.
	TablebaseURL string

	// User-Agent sent on every tablebase request, required by the
	// service's acceptable-use terms.
	UserAgent string

	// Per-attempt timeout for a single tablebase call.
	LookupTimeout time.Duration

	// Maximum lookup attempts (first try included).
	MaxAttempts uint

	// Base delay for exponential backoff between attempts.
	BaseDelay time.Duration

	// Hard cap on a single backoff delay.
	MaxDelay time.Duration

	// Capacity of the evaluation LRU cache.
	CacheCapacity int

	// Largest piece count the tablebase covers. Positions with more
	// pieces are rejected locally without a network call.
	MaxPieces int

	// Path to a SQLite position database. Empty means the built-in
	// in-memory position set is used.
	PositionDBPath string
}

// Default creates a Config from environment variables, falling back to
// sensible defaults. All variables use the ENDGAME_ prefix.
func Default() *Config {
	return &Config{
		TablebaseURL:   getEnv("ENDGAME_TABLEBASE_URL", "https://tablebase.lichess.ovh"),
		UserAgent:      getEnv("ENDGAME_USER_AGENT", "ChessEndgameTrainer/1.0 (+https://github.com/thehugegatsby/ChessEndgameTrainer-sub002)"),
		LookupTimeout:  getEnvDuration("ENDGAME_LOOKUP_TIMEOUT", 2*time.Second),
		MaxAttempts:    uint(getEnvInt("ENDGAME_LOOKUP_ATTEMPTS", 3)),
		BaseDelay:      getEnvDuration("ENDGAME_BACKOFF_BASE", 250*time.Millisecond),
		MaxDelay:       getEnvDuration("ENDGAME_BACKOFF_MAX", 2*time.Second),
		CacheCapacity:  getEnvInt("ENDGAME_CACHE_CAPACITY", 512),
		MaxPieces:      getEnvInt("ENDGAME_MAX_PIECES", 7),
		PositionDBPath: getEnv("ENDGAME_POSITION_DB", ""),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration from an environment variable or returns a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvInt gets an integer from an environment variable or returns a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
