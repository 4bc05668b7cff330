package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// API
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	WSURL  string `yaml:"ws_url"`

	// Client behaviour
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`

	// Exporter
	ListenAddr     string        `yaml:"listen_addr"`
	ScrapeInterval time.Duration `yaml:"scrape_interval"`

	// Logging
	LogLevel     slog.Level `yaml:"-"`
	LogLevelName string     `yaml:"log_level"`  // "debug", "info", "warn" or "error"
	LogFormat    string     `yaml:"log_format"` // "json" or "text"

	// Tracing
	OTLPEndpoint  string `yaml:"otlp_endpoint"`
	ServiceName   string `yaml:"service_name"`
	EnableTracing bool   `yaml:"enable_tracing"`
}

// Load builds the configuration from defaults, an optional YAML file
// (TEAMCACHE_CONFIG or ~/.teamcache.yaml), and environment variables.
// Environment variables win over the file.
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:         "http://localhost:8095",
		APIKey:         "demo-api-key-2024",
		RequestTimeout: 15 * time.Second,
		PollInterval:   5 * time.Second,
		ListenAddr:     ":9105",
		ScrapeInterval: 10 * time.Second,
		LogLevelName:   "info",
		LogFormat:      "text",
		ServiceName:    "teamcache-client",
	}

	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.APIURL = getEnv("TEAMCACHE_API_URL", cfg.APIURL)
	cfg.APIKey = getEnv("TEAMCACHE_API_KEY", cfg.APIKey)
	cfg.WSURL = getEnv("TEAMCACHE_WS_URL", cfg.WSURL)
	cfg.RequestTimeout = getEnvDuration("TEAMCACHE_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.PollInterval = getEnvDuration("TEAMCACHE_POLL_INTERVAL", cfg.PollInterval)
	cfg.ListenAddr = getEnv("TEAMCACHE_LISTEN_ADDR", cfg.ListenAddr)
	cfg.ScrapeInterval = getEnvDuration("TEAMCACHE_SCRAPE_INTERVAL", cfg.ScrapeInterval)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)

	if cfg.WSURL == "" {
		cfg.WSURL = DeriveWSURL(cfg.APIURL)
	}

	// Parse log level
	cfg.LogLevelName = getEnv("LOG_LEVEL", cfg.LogLevelName)
	switch cfg.LogLevelName {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg, nil
}

// DeriveWSURL maps an API base URL onto the metrics websocket endpoint.
func DeriveWSURL(apiURL string) string {
	ws := apiURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return strings.TrimRight(ws, "/") + "/ws"
}

func configFilePath() string {
	if path, ok := os.LookupEnv("TEAMCACHE_CONFIG"); ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".teamcache.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
