package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_NAME", "test.db")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("REQUEST_TTL", "")
	t.Setenv("SLACK_BOT_TOKEN", "")

	cfg := Load()

	assert.Equal(t, "test.db", cfg.DBName)
	assert.Equal(t, "./migrations", cfg.MigrationsDir)
	assert.Equal(t, 30*time.Minute, cfg.RequestTTL)
	assert.Equal(t, 5*time.Minute, cfg.Reconcile.Interval)
	assert.False(t, cfg.Slack.Enabled())
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Inngest.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_NAME", "test.db")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("REQUEST_TTL", "10m")
	t.Setenv("RECONCILE_INTERVAL", "not-a-duration")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-1")
	t.Setenv("SLACK_CHANNEL_ID", "C1")
	t.Setenv("INNGEST_DEV", "true")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.RequestTTL)
	assert.Equal(t, 5*time.Minute, cfg.Reconcile.Interval, "invalid values fall back to the default")
	assert.True(t, cfg.Slack.Enabled())
	assert.True(t, cfg.Inngest.Dev)
}
