package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/workshop/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		OutcomeWorkerCount: 2,
		OutcomeQueueSize:   64,
		StartingDust:       100,
		HistoryLimit:       5,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = "  "

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "invalid level", level: "INVALID", wantErr: true},
		{name: "empty level", level: "", wantErr: true},
		{name: "lowercase valid level", level: "debug", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "LOG_LEVEL")
		})
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name          string
		workers       int
		queue         int
		expectedError string
	}{
		{name: "zero workers", workers: 0, queue: 64, expectedError: "OUTCOME_WORKER_COUNT"},
		{name: "negative workers", workers: -1, queue: 64, expectedError: "OUTCOME_WORKER_COUNT"},
		{name: "zero queue", workers: 2, queue: 0, expectedError: "OUTCOME_QUEUE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.OutcomeWorkerCount = tt.workers
			cfg.OutcomeQueueSize = tt.queue

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		LogLevel:     "INVALID",
		StartingDust: -5,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "OUTCOME_WORKER_COUNT")
	assert.Contains(t, errStr, "OUTCOME_QUEUE_SIZE")
	assert.Contains(t, errStr, "STARTING_DUST")
	assert.Contains(t, errStr, "HISTORY_LIMIT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("STARTING_DUST", "250")
	t.Setenv("SHUFFLE_SEED", "42")
	t.Setenv("HISTORY_LIMIT", "not-a-number")

	cfg := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 250, cfg.StartingDust)
	assert.Equal(t, int64(42), cfg.ShuffleSeed)
	assert.Equal(t, 5, cfg.HistoryLimit)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OUTCOME_WORKER_COUNT=7\n"), 0o600))
	t.Setenv("OUTCOME_WORKER_COUNT", "")
	require.NoError(t, os.Unsetenv("OUTCOME_WORKER_COUNT"))

	cfg := config.Load(path)

	assert.Equal(t, 7, cfg.OutcomeWorkerCount)
	assert.NoError(t, os.Unsetenv("OUTCOME_WORKER_COUNT"))
}
