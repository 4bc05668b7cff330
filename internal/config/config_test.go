package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDeriveWSURL(t *testing.T) {
	tests := []struct {
		name   string
		apiURL string
		want   string
	}{
		{"plain http", "http://localhost:8095", "ws://localhost:8095/ws"},
		{"https", "https://cache.example.com", "wss://cache.example.com/ws"},
		{"trailing slash", "http://localhost:8095/", "ws://localhost:8095/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveWSURL(tt.apiURL); got != tt.want {
				t.Errorf("DeriveWSURL(%q) = %q, want %q", tt.apiURL, got, tt.want)
			}
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamcache.yaml")
	data := []byte("api_url: http://file:8095\napi_key: file-key\npoll_interval: 2s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEAMCACHE_CONFIG", path)
	t.Setenv("TEAMCACHE_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIURL != "http://file:8095" {
		t.Errorf("APIURL = %q, want file value", cfg.APIURL)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", cfg.APIKey)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.WSURL != "ws://file:8095/ws" {
		t.Errorf("WSURL = %q, want derived from APIURL", cfg.WSURL)
	}
}

func TestLoadLogLevelFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamcache.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEAMCACHE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug from file", cfg.LogLevel)
	}

	t.Setenv("LOG_LEVEL", "warn")

	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want env override", cfg.LogLevel)
	}
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	t.Setenv("TEAMCACHE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() with explicit missing config file should error")
	}
}
