package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "TOP_K", "RANKING_POLICY", "INPUT_EXTENSIONS", "OUTPUT_FORMAT", "WORKER_COUNT", "JOB_TTL", "LOG_LEVEL", "PDF_FALLBACK_PDFTOTEXT"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, "forms", cfg.RankingPolicy)
	assert.Equal(t, []string{".pdf"}, cfg.InputExtensions)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.True(t, cfg.PDFFallbackPdftotext)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TOP_K", "3")
	t.Setenv("RANKING_POLICY", "plain")
	t.Setenv("INPUT_EXTENSIONS", ".pdf, .md,,")
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, "plain", cfg.RankingPolicy)
	assert.Equal(t, []string{".pdf", ".md"}, cfg.InputExtensions)
	assert.Equal(t, 4, cfg.WorkerCount, "non-positive worker count falls back")
	assert.Equal(t, 90*time.Second, cfg.JobTTL)
	assert.False(t, cfg.PDFFallbackPdftotext)
}

func TestValidate(t *testing.T) {
	base := Config{TopK: 5, RankingPolicy: "forms", OutputFormat: "json", LogLevel: "info"}
	require.NoError(t, base.Validate())

	bad := base
	bad.TopK = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.TopK = 6
	assert.ErrorContains(t, bad.Validate(), "between 1 and 5")

	bad = base
	bad.RankingPolicy = "semantic"
	assert.Error(t, bad.Validate())

	bad = base
	bad.OutputFormat = "csv"
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "verbose"
	assert.Error(t, bad.Validate())

	assert.Error(t, base.ValidateServer(), "server requires an API key")
	base.DocrankAPIKey = "secret"
	assert.NoError(t, base.ValidateServer())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}
