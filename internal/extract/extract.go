// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package extract reads the text printed on page images.
//
// Backends implement Extractor. Throttled and Cached wrap any backend to
// bound the request rate and to remember results by image content.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/storybook-go/internal/cache"
	"github.com/olegiv/storybook-go/internal/config"
	"github.com/olegiv/storybook-go/internal/model"
)

var (
	ErrEmptyImage = errors.New("page has no image")
	ErrNoText     = errors.New("no text found")
)

// Extractor reads the text printed on an image.
type Extractor interface {
	ExtractText(ctx context.Context, img model.ImageRef) (string, error)
}

// FromConfig builds the configured extractor, throttled to the configured
// rate and cached in c when c is not nil. It returns nil when extraction is
// disabled.
func FromConfig(cfg *config.Config, c cache.Cache, logger *slog.Logger) (Extractor, error) {
	var (
		backend Extractor
		name    string
	)
	switch cfg.Extractor {
	case config.ExtractorNone:
		return nil, nil
	case config.ExtractorOpenAI:
		backend = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		name = "openai:" + cfg.OpenAIModel
	case config.ExtractorTesseract:
		backend = NewTesseract(cfg.TesseractPath, cfg.TesseractLangs)
		name = "tesseract:" + cfg.TesseractLangs
	default:
		return nil, fmt.Errorf("unknown extractor %q", cfg.Extractor)
	}

	var ex Extractor = NewThrottled(backend, float64(cfg.ExtractRPS), cfg.ExtractConcurrency)
	if c != nil {
		ex = NewCached(ex, c, name, cfg.CacheTTLDuration())
	}
	logger.Info("text extraction enabled", "backend", name, "rps", cfg.ExtractRPS)
	return ex, nil
}
