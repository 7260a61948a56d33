// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Backend names reported by Info.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for the memory cache (0 = unlimited).
	MaxSize int

	CleanupInterval time.Duration

	// FallbackToMemory uses the memory backend when Redis is unreachable.
	FallbackToMemory bool
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:           "storybook:",
		DefaultTTL:       time.Hour,
		MaxSize:          2000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// Info describes the backend that New selected.
type Info struct {
	Backend  string `json:"backend"`
	RedisURL string `json:"redis_url,omitempty"` // password masked
	Fallback bool   `json:"fallback,omitempty"`
}

// New creates a cache from cfg. A Redis URL selects Redis; if the
// connection fails and FallbackToMemory is set, a memory cache is returned
// instead and the failure is logged.
func New(cfg Config, logger *slog.Logger) (Cache, Info, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.RedisURL != "" {
		info := Info{Backend: BackendRedis, RedisURL: SanitizeRedisURL(cfg.RedisURL)}
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			logger.Info("using redis cache", "category", "cache", "url", info.RedisURL)
			return rc, info, nil
		}
		if !cfg.FallbackToMemory {
			return nil, info, err
		}
		logger.Warn("redis unavailable, falling back to memory cache",
			"category", "cache", "url", info.RedisURL, "error", err)
		return newMemory(cfg), Info{Backend: BackendMemory, RedisURL: info.RedisURL, Fallback: true}, nil
	}

	return newMemory(cfg), Info{Backend: BackendMemory}, nil
}

func newMemory(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password of a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
