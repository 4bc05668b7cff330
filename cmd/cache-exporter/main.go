package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"teamcache.client/internal/api"
	"teamcache.client/internal/config"
	"teamcache.client/internal/core/logger"
	"teamcache.client/internal/core/tracing"
	"teamcache.client/internal/exporter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting TeamCache exporter",
		"api_url", cfg.APIURL,
		"ws_url", cfg.WSURL,
		"listen_addr", cfg.ListenAddr,
	)

	if cfg.EnableTracing {
		shutdown, err := tracing.Init(cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("failed to initialize tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	client, err := api.New(cfg.APIURL, cfg.APIKey, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		log.Fatalf("failed to build client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exp := exporter.New(client, cfg.WSURL, cfg.ScrapeInterval)
	if err := exp.Run(ctx, cfg.ListenAddr); err != nil {
		log.Fatalf("exporter failed: %v", err)
	}

	logger.Info("exporter stopped")
}
