// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/storybook-go/internal/cache"
	"github.com/olegiv/storybook-go/internal/config"
	"github.com/olegiv/storybook-go/internal/docimport"
	"github.com/olegiv/storybook-go/internal/export"
	"github.com/olegiv/storybook-go/internal/extract"
	"github.com/olegiv/storybook-go/internal/handler/api"
	"github.com/olegiv/storybook-go/internal/i18n"
	"github.com/olegiv/storybook-go/internal/logging"
	"github.com/olegiv/storybook-go/internal/middleware"
	"github.com/olegiv/storybook-go/internal/render"
	"github.com/olegiv/storybook-go/internal/scheduler"
	"github.com/olegiv/storybook-go/internal/service"
	"github.com/olegiv/storybook-go/internal/store"
	"github.com/olegiv/storybook-go/internal/story"
	"github.com/olegiv/storybook-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// previewTTL is how long rendered page previews stay cached.
const previewTTL = 10 * time.Minute

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "storybook - picture storybook editor service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORYBOOK_DB_PATH           SQLite database path (default: ./data/storybook.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORYBOOK_SERVER_PORT       Server port (default: 8090)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORYBOOK_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORYBOOK_EXTRACTOR         Text extraction: none|openai|tesseract (default: none)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORYBOOK_OPENAI_API_KEY    API key for the openai extractor\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STORYBOOK_REDIS_URL         Redis URL for the preview and extraction cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(buildInfo())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func buildInfo() version.Info {
	return version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	cacheConfig := cache.DefaultConfig()
	cacheConfig.RedisURL = cfg.RedisURL
	cacheConfig.Prefix = cfg.CachePrefix
	cacheConfig.DefaultTTL = cfg.CacheTTLDuration()
	cacheConfig.MaxSize = cfg.CacheMaxSize
	sharedCache, cacheInfo, err := cache.New(cacheConfig, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = sharedCache.Close() }()

	raster, err := render.NewRasterizer()
	if err != nil {
		return fmt.Errorf("loading fonts: %w", err)
	}

	extractor, err := extract.FromConfig(cfg, sharedCache, logger)
	if err != nil {
		return fmt.Errorf("initializing text extraction: %w", err)
	}

	sched := scheduler.New(store.New(db), time.Duration(cfg.EventRetentionDays)*24*time.Hour, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	h := api.NewHandler(api.Deps{
		Story:              story.New(logger),
		Raster:             raster,
		Previewer:          render.NewPreviewer(raster, sharedCache, previewTTL, logger),
		Exporter:           export.NewPipeline(cfg.DefaultStoryName, logger),
		Importer:           docimport.NewPoppler(cfg.PdfinfoPath, cfg.PdftoppmPath, logger),
		Extractor:          extractor,
		Templates:          store.NewTemplateStore(db),
		Events:             service.NewEventService(db),
		Logger:             logger,
		Version:            buildInfo(),
		ExtractConcurrency: cfg.ExtractConcurrency,
		CacheBackend:       cacheInfo.Backend,
	})

	routes := api.RouteConfig{
		Timeout:     30 * time.Second,
		LongTimeout: cfg.ExportTimeoutDuration(),
	}
	if cfg.HeavyRateLimit > 0 {
		routes.Limiter = middleware.NewRateLimiter(cfg.HeavyRateLimit, max(cfg.HeavyRateBurst, 1))
	}

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Mount("/", h.Routes(routes))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       60 * time.Second, // uploads and PDF imports
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.ExportTimeoutDuration() + 30*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
