package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "intern-match")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.NotContains(t, err.Error(), "APP_ENV")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "intern-match", cfg.App.AppName)
	assert.Equal(t, 5, cfg.Recs.DefaultLimit)
	assert.Equal(t, 0, cfg.Recs.DailyMinScore)
	assert.Equal(t, time.UTC, cfg.Recs.Location())
	assert.Equal(t, "0 5 * * *", cfg.Scheduler.Spec)
	assert.Equal(t, 600*time.Second, cfg.Redis.TTL())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.False(t, cfg.Database.Configured())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("RECS_TIMEZONE", "Asia/Kolkata")
	t.Setenv("RECS_DEFAULT_LIMIT", "7")
	t.Setenv("REDIS_TTL", "30")
	t.Setenv("DB_HOST", " db ")
	t.Setenv("DB_NAME", "intern")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", cfg.Recs.Location().String())
	assert.Equal(t, 7, cfg.Recs.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL())
	assert.Equal(t, "db", cfg.Database.DBHost)
	assert.True(t, cfg.Database.Configured())
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiresIn)
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	setRequired(t)
	t.Setenv("RECS_DEFAULT_LIMIT", "50")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("RECS_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recommendations:\n  daily_min_score: 40\n"), 0o644))

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Recs.DailyMinScore)
}
