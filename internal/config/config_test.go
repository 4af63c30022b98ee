package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
log:
  level: info
matching:
  min_score: 40
  rate_per_minute: 120
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
	if cfg.Matching.MinScore != 40 {
		t.Fatalf("unexpected matching min_score: %d", cfg.Matching.MinScore)
	}
	if cfg.Matching.RatePerMinute != 120 {
		t.Fatalf("unexpected matching rate_per_minute: %d", cfg.Matching.RatePerMinute)
	}

	if cfg.Matching.DefaultLimit != 20 {
		t.Fatalf("matching default_limit default should stay 20, got %d", cfg.Matching.DefaultLimit)
	}
	if cfg.Matching.MaxLimit != 50 {
		t.Fatalf("matching max_limit default should stay 50, got %d", cfg.Matching.MaxLimit)
	}
	if cfg.HTTP.ReadTimeout.String() != "5s" {
		t.Fatalf("unexpected default read timeout: %s", cfg.HTTP.ReadTimeout)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Matching.MinScore != 50 {
		t.Fatalf("unexpected default min_score: %d", cfg.Matching.MinScore)
	}
	if cfg.Matching.RatePer10Seconds != 10 {
		t.Fatalf("unexpected default rate_per_10sec: %d", cfg.Matching.RatePer10Seconds)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("MATCH_MIN_SCORE", "70")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Matching.MinScore != 70 {
		t.Fatalf("unexpected env min_score: %d", cfg.Matching.MinScore)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Fatalf("unexpected env redis addr: %s", cfg.Redis.Addr)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"MATCH_MIN_SCORE",
		"MATCH_DEFAULT_LIMIT",
		"MATCH_MAX_LIMIT",
		"MATCH_RATE_PER_MINUTE",
		"MATCH_RATE_PER_10SEC",
	} {
		t.Setenv(key, "")
	}
}
