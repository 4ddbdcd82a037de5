package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ops")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultLogLevel, cfg.Logger.Level)
	assert.Equal(t, DefaultEnvironment, cfg.Logger.Environment)
	assert.Equal(t, DefaultAliasCacheTTL, cfg.Aggregation.AliasCacheTTL)
	assert.Equal(t, DefaultUpsertWorkers, cfg.Aggregation.UpsertWorkers)
	assert.Equal(t, DefaultOverlapThreshold, cfg.Aggregation.OverlapThreshold)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, DefaultAggregationSpec, cfg.Scheduler.AggregationSpec)
	assert.Equal(t, DefaultConflictSpec, cfg.Scheduler.ConflictSpec)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ops")
	t.Setenv("ALIAS_CACHE_TTL", "90s")
	t.Setenv("OVERLAP_THRESHOLD", "0.5")
	t.Setenv("UPSERT_WORKERS", "8")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("AGGREGATION_CRON", "0 0 4 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Aggregation.AliasCacheTTL)
	assert.Equal(t, 0.5, cfg.Aggregation.OverlapThreshold)
	assert.Equal(t, 8, cfg.Aggregation.UpsertWorkers)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 0 4 * * *", cfg.Scheduler.AggregationSpec)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := TestConfig()
	cfg.Database.URL = ""
	cfg.Server.Port = 70000
	cfg.Logger.Level = "verbose"
	cfg.Aggregation.OverlapThreshold = 1.5
	cfg.Aggregation.UpsertWorkers = 0

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 5)
}

func TestProductionRequiresAPIKey(t *testing.T) {
	cfg := TestConfig()
	cfg.Logger.Environment = "production"
	cfg.Auth.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestOverlapThresholdBounds(t *testing.T) {
	cfg := TestConfig()

	cfg.Aggregation.OverlapThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg.Aggregation.OverlapThreshold = 1.0
	assert.NoError(t, cfg.Validate())

	cfg.Aggregation.OverlapThreshold = 0.8
	assert.NoError(t, cfg.Validate())
}
