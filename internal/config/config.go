package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docrank/internal/output"
	"github.com/dgallion1/docrank/internal/ranking"
)

type Config struct {
	Port string

	// Auth
	DocrankAPIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Batch analysis
	InputDir        string
	OutputDir       string
	PersonaFile     string
	InputExtensions []string
	OutputFormat    string

	// Ranking
	TopK          int
	RankingPolicy string

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DocrankAPIKey: os.Getenv("DOCRANK_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		InputDir:        envOr("INPUT_DIR", "input"),
		OutputDir:       envOr("OUTPUT_DIR", "output"),
		PersonaFile:     envOr("PERSONA_FILE", "persona.json"),
		InputExtensions: envList("INPUT_EXTENSIONS", []string{".pdf"}),
		OutputFormat:    envOr("OUTPUT_FORMAT", "json"),

		TopK:          envInt("TOP_K", ranking.DefaultTopK),
		RankingPolicy: envOr("RANKING_POLICY", ranking.PolicyForms),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks settings shared by every command.
func (c Config) Validate() error {
	if c.TopK <= 0 || c.TopK > ranking.MaxTopK {
		return fmt.Errorf("TOP_K must be between 1 and %d, got %d", ranking.MaxTopK, c.TopK)
	}
	if _, err := ranking.PolicyByName(c.RankingPolicy); err != nil {
		return fmt.Errorf("RANKING_POLICY: %w", err)
	}
	if _, err := output.ParseFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("OUTPUT_FORMAT: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// ValidateServer additionally checks settings required by the HTTP server.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DocrankAPIKey == "" {
		return fmt.Errorf("DOCRANK_API_KEY is required")
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
