package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "QDRANT_URL", "WORKER_POLL_INTERVAL", "LOG_JSON", "BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Server.Port != "3000" {
		t.Errorf("Port = %s, want 3000", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %s", cfg.Server.BaseURL)
	}
	if cfg.Storage.Driver != "local" {
		t.Errorf("Storage.Driver = %s, want local", cfg.Storage.Driver)
	}
	if cfg.Qdrant.URL != "" {
		t.Errorf("Qdrant should be disabled by default, got %s", cfg.Qdrant.URL)
	}
	if cfg.Worker.PollInterval != 10*time.Second {
		t.Errorf("PollInterval = %s", cfg.Worker.PollInterval)
	}
	if cfg.Worker.StaleAfter != 15*time.Minute {
		t.Errorf("StaleAfter = %s", cfg.Worker.StaleAfter)
	}
	if cfg.Log.JSON {
		t.Errorf("Log.JSON should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("BASE_URL", "https://cv.example.com/")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("WORKER_POLL_INTERVAL", "not-a-duration")
	t.Setenv("WORKER_CONCURRENCY", "x")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "intake")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "cv")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %s", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "https://cv.example.com" {
		t.Errorf("BaseURL = %s", cfg.Server.BaseURL)
	}
	if !cfg.Storage.S3.UseSSL {
		t.Errorf("S3.UseSSL not parsed")
	}
	if cfg.Storage.MaxFileSize != 2048 {
		t.Errorf("MaxFileSize = %d", cfg.Storage.MaxFileSize)
	}
	if cfg.Worker.PollInterval != 10*time.Second {
		t.Errorf("invalid duration should fall back to default, got %s", cfg.Worker.PollInterval)
	}
	if cfg.Worker.Concurrency != 3 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.Worker.Concurrency)
	}
	if got, want := cfg.GetDatabaseDSN(), "host=db port=5433 user=intake password=secret dbname=cv sslmode=require"; got != want {
		t.Errorf("DSN = %s, want %s", got, want)
	}
}
