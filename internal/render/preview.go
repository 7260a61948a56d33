// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/olegiv/storybook-go/internal/cache"
	imgproc "github.com/olegiv/storybook-go/internal/imaging"
	"github.com/olegiv/storybook-go/internal/story"
)

// PreviewBackground fills areas a theme leaves unpainted in previews.
var PreviewBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Previewer renders editor previews of story pages as PNG, caching the
// results.
type Previewer struct {
	raster *Rasterizer
	cache  cache.Cache // may be nil
	ttl    time.Duration
	logger *slog.Logger
}

// NewPreviewer creates a previewer. A nil cache disables caching.
func NewPreviewer(raster *Rasterizer, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Previewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Previewer{raster: raster, cache: c, ttl: ttl, logger: logger}
}

// Preview returns the PNG of story page idx with editor chrome.
func (p *Previewer) Preview(ctx context.Context, snap story.Snapshot, idx int, scale float64) ([]byte, error) {
	if idx < 0 || idx >= len(snap.Pages) {
		return nil, fmt.Errorf("%w: %d (have %d pages)", story.ErrIndexOutOfRange, idx, len(snap.Pages))
	}
	spec := PageSpec{Kind: KindStory, Style: snap.Story.Style, Page: snap.Pages[idx], Number: idx + 1}
	chrome := EditorChrome(slices.Contains(snap.Selection, idx), idx == snap.CutIndex)

	key, err := previewKey(spec, chrome, scale)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		if data, err := p.cache.Get(ctx, key); err == nil {
			return data, nil
		}
	}

	img, err := p.raster.Render(spec, Options{Scale: scale, Background: PreviewBackground, Chrome: chrome})
	if err != nil {
		return nil, err
	}
	data, err := imgproc.Encode(img, "png", 0)
	if err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
			p.logger.Debug("preview cache write failed", "category", "cache", "error", err)
		}
	}
	return data, nil
}

// previewKey covers everything a preview depends on: the page revision,
// the style, the scale and the chrome.
func previewKey(spec PageSpec, chrome Chrome, scale float64) (string, error) {
	style, err := json.Marshal(spec.Style)
	if err != nil {
		return "", fmt.Errorf("encoding style: %w", err)
	}
	var nums [24]byte
	binary.LittleEndian.PutUint64(nums[0:], uint64(spec.Page.Revision))
	binary.LittleEndian.PutUint64(nums[8:], math.Float64bits(scale))
	binary.LittleEndian.PutUint64(nums[16:], uint64(spec.Number))
	flags := []byte{b2i(chrome.PageNumber), b2i(chrome.Selected), b2i(chrome.Cut), b2i(chrome.Outlines)}
	return cache.Key(cache.NamespacePreview, []byte(spec.Page.ID), nums[:], style, flags), nil
}

func b2i(b bool) byte {
	if b {
		return 1
	}
	return 0
}
