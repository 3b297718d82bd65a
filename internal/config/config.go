package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	OutcomeWorkerCount int
	OutcomeQueueSize   int
	StartingDust       int
	HistoryLimit       int
	ShuffleSeed        int64
}

// Load reads configuration from the given .env files (or ./.env when none
// are named) and environment variables, applying defaults when values are
// missing or invalid.
func Load(envFiles ...string) Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load(envFiles...)

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:workshop.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		OutcomeWorkerCount: envIntOr("OUTCOME_WORKER_COUNT", 2),
		OutcomeQueueSize:   envIntOr("OUTCOME_QUEUE_SIZE", 64),
		StartingDust:       envIntOr("STARTING_DUST", 100),
		HistoryLimit:       envIntOr("HISTORY_LIMIT", 5),
		ShuffleSeed:        int64(envIntOr("SHUFFLE_SEED", 0)),
	}
}

var validLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if !validLogLevels[strings.ToUpper(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.OutcomeWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("OUTCOME_WORKER_COUNT must be at least 1 (got %d)", c.OutcomeWorkerCount))
	}
	if c.OutcomeQueueSize < 1 {
		errs = append(errs, fmt.Errorf("OUTCOME_QUEUE_SIZE must be at least 1 (got %d)", c.OutcomeQueueSize))
	}
	if c.StartingDust < 0 {
		errs = append(errs, fmt.Errorf("STARTING_DUST cannot be negative (got %d)", c.StartingDust))
	}
	if c.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("HISTORY_LIMIT must be at least 1 (got %d)", c.HistoryLimit))
	}

	return errors.Join(errs...)
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
