// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

// Extractor backends.
const (
	ExtractorNone      = "none"
	ExtractorOpenAI    = "openai"
	ExtractorTesseract = "tesseract"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"STORYBOOK_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"STORYBOOK_SERVER_PORT" envDefault:"8090"`
	Env        string `env:"STORYBOOK_ENV" envDefault:"development"`
	LogLevel   string `env:"STORYBOOK_LOG_LEVEL" envDefault:"info"`
	DBPath     string `env:"STORYBOOK_DB_PATH" envDefault:"./data/storybook.db"`

	// Cache configuration
	RedisURL     string `env:"STORYBOOK_REDIS_URL"`                            // Optional Redis URL for shared caching
	CachePrefix  string `env:"STORYBOOK_CACHE_PREFIX" envDefault:"storybook:"` // Redis key prefix
	CacheTTL     int    `env:"STORYBOOK_CACHE_TTL" envDefault:"3600"`          // Default cache TTL in seconds
	CacheMaxSize int    `env:"STORYBOOK_CACHE_MAX_SIZE" envDefault:"2000"`     // Max memory cache entries

	// Text extraction
	Extractor          string `env:"STORYBOOK_EXTRACTOR" envDefault:"none"`
	OpenAIAPIKey       string `env:"STORYBOOK_OPENAI_API_KEY"`
	OpenAIModel        string `env:"STORYBOOK_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL      string `env:"STORYBOOK_OPENAI_BASE_URL"`
	TesseractPath      string `env:"STORYBOOK_TESSERACT_PATH" envDefault:"tesseract"`
	TesseractLangs     string `env:"STORYBOOK_TESSERACT_LANGS" envDefault:"ara+eng"`
	ExtractConcurrency int    `env:"STORYBOOK_EXTRACT_CONCURRENCY" envDefault:"4"`
	ExtractRPS         int    `env:"STORYBOOK_EXTRACT_RPS" envDefault:"2"`

	// PDF import (poppler-utils)
	PdftoppmPath string `env:"STORYBOOK_PDFTOPPM_PATH" envDefault:"pdftoppm"`
	PdfinfoPath  string `env:"STORYBOOK_PDFINFO_PATH" envDefault:"pdfinfo"`

	DefaultStoryName   string `env:"STORYBOOK_DEFAULT_STORY_NAME" envDefault:"story"`
	ExportTimeout      int    `env:"STORYBOOK_EXPORT_TIMEOUT" envDefault:"300"`     // seconds
	EventRetentionDays int    `env:"STORYBOOK_EVENT_RETENTION_DAYS" envDefault:"30"` // 0 disables cleanup

	// Per-client limit on export, import and extraction requests. 0 disables.
	HeavyRateLimit float64 `env:"STORYBOOK_HEAVY_RATE_LIMIT" envDefault:"1"` // requests per second
	HeavyRateBurst int     `env:"STORYBOOK_HEAVY_RATE_BURST" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// ExportTimeoutDuration returns the export deadline as a duration.
func (c Config) ExportTimeoutDuration() time.Duration {
	return time.Duration(c.ExportTimeout) * time.Second
}

// ExtractionEnabled reports whether a text extractor is configured.
func (c Config) ExtractionEnabled() bool {
	return c.Extractor != ExtractorNone
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c Config) Validate() error {
	var errs []error

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("STORYBOOK_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if !slices.Contains([]string{ExtractorNone, ExtractorOpenAI, ExtractorTesseract}, c.Extractor) {
		errs = append(errs, fmt.Errorf("STORYBOOK_EXTRACTOR must be one of none, openai, tesseract; got %q", c.Extractor))
	}
	if c.Extractor == ExtractorOpenAI && c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("STORYBOOK_OPENAI_API_KEY is required when STORYBOOK_EXTRACTOR=openai"))
	}
	if c.ExtractConcurrency < 1 {
		errs = append(errs, fmt.Errorf("STORYBOOK_EXTRACT_CONCURRENCY must be positive, got %d", c.ExtractConcurrency))
	}
	if c.ExtractRPS < 1 {
		errs = append(errs, fmt.Errorf("STORYBOOK_EXTRACT_RPS must be positive, got %d", c.ExtractRPS))
	}
	if c.ExportTimeout < 1 {
		errs = append(errs, fmt.Errorf("STORYBOOK_EXPORT_TIMEOUT must be positive, got %d", c.ExportTimeout))
	}
	if c.CacheTTL < 1 {
		errs = append(errs, fmt.Errorf("STORYBOOK_CACHE_TTL must be positive, got %d", c.CacheTTL))
	}
	if c.HeavyRateLimit < 0 || c.HeavyRateBurst < 0 {
		errs = append(errs, errors.New("STORYBOOK_HEAVY_RATE_LIMIT and STORYBOOK_HEAVY_RATE_BURST must not be negative"))
	}
	if c.EventRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("STORYBOOK_EVENT_RETENTION_DAYS must not be negative, got %d", c.EventRetentionDays))
	}

	return errors.Join(errs...)
}
