package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.HealthPort)
	assert.Equal(t, 300*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.CaptureBatchSize)
	assert.Equal(t, 5*time.Second, cfg.CaptureFlushInterval)
	assert.Equal(t, 100, cfg.AuditMaxPending)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HEALTH_PORT", "9999")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("CAPTURE_BATCH_SIZE", "25")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.HealthPort)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.CaptureBatchSize)
}

func TestLoad_RejectsInvalidAuditCap(t *testing.T) {
	t.Setenv("AUDIT_MAX_PENDING", "3")
	t.Setenv("AUDIT_BATCH_SIZE", "10")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDefaultRouteLimits(t *testing.T) {
	limits := config.DefaultRouteLimits()

	analyze := limits.Lookup("analyze")
	upload := limits.Lookup("upload")
	query := limits.Lookup("query")

	assert.Less(t, analyze.Limit, query.Limit, "analysis routes tighter than query routes")
	assert.Less(t, upload.Limit, analyze.Limit, "upload routes tightest")
	assert.Equal(t, time.Minute, analyze.Window())
}

func TestRouteLimits_UnknownRouteFallsBackToQuery(t *testing.T) {
	limits := config.DefaultRouteLimits()
	assert.Equal(t, limits["query"], limits.Lookup("does-not-exist"))
}

func TestLoadRouteLimits_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	content := []byte("routes:\n  analyze:\n    limit: 3\n    window_seconds: 10\n  custom:\n    limit: 7\n    window_seconds: 30\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	limits, err := config.LoadRouteLimits(path)

	require.NoError(t, err)
	assert.Equal(t, 3, limits.Lookup("analyze").Limit)
	assert.Equal(t, 10*time.Second, limits.Lookup("analyze").Window())
	assert.Equal(t, 7, limits.Lookup("custom").Limit)
	// Untouched defaults survive the overlay.
	assert.Equal(t, 100, limits.Lookup("query").Limit)
}

func TestLoadRouteLimits_RejectsNonPositiveValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	content := []byte("routes:\n  analyze:\n    limit: 0\n    window_seconds: 10\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := config.LoadRouteLimits(path)
	assert.Error(t, err)
}

func TestLoadRouteLimits_MissingFileFails(t *testing.T) {
	_, err := config.LoadRouteLimits("/does/not/exist.yaml")
	assert.Error(t, err)
}
