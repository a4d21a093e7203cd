package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != EnvLocal {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvLocal)
	}
	if cfg.Feeds.MaxConcurrency != 2 {
		t.Errorf("MaxConcurrency = %d, want 2", cfg.Feeds.MaxConcurrency)
	}
	if cfg.Feeds.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want 20s", cfg.Feeds.Timeout)
	}
	if cfg.Analysis.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Analysis.Model)
	}
	if !cfg.Analysis.Research {
		t.Error("Research should default to true")
	}
	if cfg.Storage.LocalDir != "reports" {
		t.Errorf("LocalDir = %q", cfg.Storage.LocalDir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Server.CronSchedule != "0 6 * * *" {
		t.Errorf("CronSchedule = %q", cfg.Server.CronSchedule)
	}
}

func TestLoadEnvironmentBindings(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key-from-env")
	t.Setenv("CRON_SECRET", "cron-from-env")
	t.Setenv("ESCMON_FEEDS_MAX_CONCURRENCY", "4")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Analysis.APIKey != "key-from-env" {
		t.Errorf("APIKey = %q", cfg.Analysis.APIKey)
	}
	if cfg.Server.CronSecret != "cron-from-env" {
		t.Errorf("CronSecret = %q", cfg.Server.CronSecret)
	}
	if cfg.Feeds.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", cfg.Feeds.MaxConcurrency)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("ESCMON_ENV", "staging")

	if _, err := Load(""); err == nil {
		t.Fatal("Load accepted invalid env")
	}
}

func TestLoadRequiresBlobTokenOutsideLocal(t *testing.T) {
	t.Setenv("ESCMON_ENV", "prod")

	if _, err := Load(""); err == nil {
		t.Fatal("prod env without blob token must fail")
	}

	t.Setenv("BLOB_READ_WRITE_TOKEN", "token")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != EnvProd || cfg.Storage.BlobToken != "token" {
		t.Errorf("cfg = env %q token %q", cfg.Env, cfg.Storage.BlobToken)
	}
}
