package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_env")

	cfg, err := Parse([]byte("log_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "ghp_env", cfg.GitHub.Token)
	assert.Equal(t, 100, cfg.GitHub.PageSize)

	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 120*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, 2.0, cfg.Retry.Multiplier)
	assert.Equal(t, time.Second, cfg.Retry.QuotaBuffer)

	assert.Equal(t, 100, cfg.RateLimit.LowWatermark)
	assert.Equal(t, 100, cfg.RateLimit.PacingInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.PacingPause)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.Equal(t, time.Second, cfg.RateLimit.ResetBuffer)

	assert.Equal(t, int64(100000), cfg.Crawl.TargetCount)
	assert.Equal(t, "stars:>1", cfg.Crawl.Query)
	assert.True(t, cfg.Crawl.ShouldResume())
	assert.Zero(t, cfg.Crawl.Interval)

	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestParse_OverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")

	data := []byte(`
database:
  host: db
  port: 6543
  user: crawler
  password: ${DB_PASSWORD}
  dbname: stars
github:
  token: ghp_file
  page_size: 500
crawl:
  target_count: 25
  query: "language:go stars:>10"
  resume: false
  interval: 24h
metrics:
  addr: ":9090"
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "host=db port=6543 user=crawler password=s3cret dbname=stars sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "ghp_file", cfg.GitHub.Token)
	assert.Equal(t, 100, cfg.GitHub.PageSize, "page size is capped")
	assert.Equal(t, int64(25), cfg.Crawl.TargetCount)
	assert.Equal(t, "language:go stars:>10", cfg.Crawl.Query)
	assert.False(t, cfg.Crawl.ShouldResume())
	assert.Equal(t, 24*time.Hour, cfg.Crawl.Interval)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestParse_ExplicitZeroDisablesPolicies(t *testing.T) {
	data := []byte(`
retry:
  max_retries: 0
rate_limit:
  low_watermark: 0
  pacing_interval: 0
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Zero(t, cfg.Retry.MaxRetries)
	assert.Zero(t, cfg.RateLimit.LowWatermark)
	assert.Zero(t, cfg.RateLimit.PacingInterval)

	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.PacingPause)
}

func TestParse_PartialSectionKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("rate_limit:\n  low_watermark: 250\n"))
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.RateLimit.LowWatermark)
	assert.Equal(t, 100, cfg.RateLimit.PacingInterval)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawl:\n  target_count: 7\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Crawl.TargetCount)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("crawl: [unterminated"))
	assert.Error(t, err)
}
