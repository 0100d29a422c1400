package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupConfigFromEnv(t *testing.T) {
	t.Setenv("CLEANUP_CRON_SCHEDULE", "")
	t.Setenv("RETURN_RECEIPT_TTL_DAYS", "")
	cfg := CleanupConfigFromEnv()
	assert.Equal(t, "15 3 * * *", cfg.Schedule)
	assert.Equal(t, 30*24*time.Hour, cfg.ReceiptRetention)

	t.Setenv("CLEANUP_CRON_SCHEDULE", "@hourly")
	t.Setenv("RETURN_RECEIPT_TTL_DAYS", "7")
	cfg = CleanupConfigFromEnv()
	assert.Equal(t, "@hourly", cfg.Schedule)
	assert.Equal(t, 7*24*time.Hour, cfg.ReceiptRetention)
}

func TestStartCleanupScheduler(t *testing.T) {
	_, err := StartCleanupScheduler(nil, CleanupConfig{Schedule: "every tuesday-ish"})
	assert.Error(t, err)

	c, err := StartCleanupScheduler(nil, CleanupConfig{Schedule: "@daily", RunTimeout: time.Second})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
