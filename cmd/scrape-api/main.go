package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stylefeed/fashion-image-scraper/internal/api"
	"github.com/stylefeed/fashion-image-scraper/internal/brands"
	"github.com/stylefeed/fashion-image-scraper/internal/cache"
	"github.com/stylefeed/fashion-image-scraper/internal/config"
	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/lookup"
	"github.com/stylefeed/fashion-image-scraper/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)
	logger.Info("starting fashion image scraper")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	// One shared client; per-probe timeouts come from the validation rules.
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        64,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	probeFetcher := fetcher.New(httpClient, logger)
	validator := engine.New(probeFetcher, logger)

	var store lookup.Store
	if cfg.Database.URL != "" {
		pg, err := lookup.NewPGStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to lookup database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.Import(ctx, "joop", brands.JoopSeed()); err != nil {
			logger.Warn("failed to import bundled lookup seed", "error", err)
		}
		store = pg
		logger.Info("lookup tables served from database")
	} else {
		mem := lookup.NewMemStore()
		brands.SeedLookups(mem)
		store = mem
		logger.Info("lookup tables served from bundled seed")
	}

	var respCache *cache.Cache
	if cfg.Redis.Addr != "" {
		respCache, err = cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer respCache.Close()
		logger.Info("response cache enabled", "ttl", cfg.Redis.TTL)
	}

	registry := brands.NewRegistry(brands.Deps{
		Engine:       validator,
		Fetcher:      probeFetcher,
		Lookup:       store,
		Limiter:      ratelimit.New(cfg.Scrape.SearchDelayMin, cfg.Scrape.SearchDelayMax),
		Client:       httpClient,
		Concurrency:  cfg.Scrape.Concurrency,
		FetchTimeout: cfg.Scrape.FetchTimeout,
		Logger:       logger,
	})
	logger.Info("brand registry ready", "brands", registry.Brands())

	handlers := api.NewHandlers(registry, respCache, cfg.Scrape, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
