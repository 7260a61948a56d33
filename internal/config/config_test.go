// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/storybook.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/storybook.db")
	}
	if cfg.ServerAddr() != "localhost:8090" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8090")
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.ExtractionEnabled() {
		t.Error("extraction should be disabled by default")
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be disabled by default")
	}
	if cfg.CacheTTLDuration() != time.Hour {
		t.Errorf("CacheTTLDuration() = %v, want 1h", cfg.CacheTTLDuration())
	}
	if cfg.ExportTimeoutDuration() != 5*time.Minute {
		t.Errorf("ExportTimeoutDuration() = %v, want 5m", cfg.ExportTimeoutDuration())
	}
	if cfg.TesseractLangs != "ara+eng" {
		t.Errorf("TesseractLangs = %q", cfg.TesseractLangs)
	}
	if cfg.DefaultStoryName != "story" {
		t.Errorf("DefaultStoryName = %q", cfg.DefaultStoryName)
	}
	if cfg.HeavyRateLimit != 1 || cfg.HeavyRateBurst != 5 {
		t.Errorf("heavy rate = %v/%d, want 1/5", cfg.HeavyRateLimit, cfg.HeavyRateBurst)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	t.Setenv("STORYBOOK_DB_PATH", "/custom/path.db")
	t.Setenv("STORYBOOK_SERVER_HOST", "0.0.0.0")
	t.Setenv("STORYBOOK_SERVER_PORT", "3000")
	t.Setenv("STORYBOOK_ENV", "production")
	t.Setenv("STORYBOOK_EXTRACTOR", "openai")
	t.Setenv("STORYBOOK_OPENAI_API_KEY", "sk-test")
	t.Setenv("STORYBOOK_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("expected production")
	}
	if !cfg.ExtractionEnabled() || cfg.Extractor != ExtractorOpenAI {
		t.Errorf("Extractor = %q", cfg.Extractor)
	}
	if !cfg.UseRedisCache() {
		t.Error("expected redis cache")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port too high", map[string]string{"STORYBOOK_SERVER_PORT": "70000"}, "STORYBOOK_SERVER_PORT"},
		{"port not a number", map[string]string{"STORYBOOK_SERVER_PORT": "abc"}, "parsing config"},
		{"unknown extractor", map[string]string{"STORYBOOK_EXTRACTOR": "magic"}, "STORYBOOK_EXTRACTOR"},
		{"openai without key", map[string]string{"STORYBOOK_EXTRACTOR": "openai"}, "STORYBOOK_OPENAI_API_KEY"},
		{"zero concurrency", map[string]string{"STORYBOOK_EXTRACT_CONCURRENCY": "0"}, "STORYBOOK_EXTRACT_CONCURRENCY"},
		{"zero rps", map[string]string{"STORYBOOK_EXTRACT_RPS": "0"}, "STORYBOOK_EXTRACT_RPS"},
		{"negative retention", map[string]string{"STORYBOOK_EVENT_RETENTION_DAYS": "-1"}, "STORYBOOK_EVENT_RETENTION_DAYS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Config{ServerPort: 0, Extractor: "openai", ExtractConcurrency: 1, ExtractRPS: 1, ExportTimeout: 1, CacheTTL: 1}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"STORYBOOK_SERVER_PORT", "STORYBOOK_OPENAI_API_KEY"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %s", msg, want)
		}
	}
}
