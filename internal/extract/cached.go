// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"context"
	"time"

	"github.com/olegiv/storybook-go/internal/cache"
	"github.com/olegiv/storybook-go/internal/model"
)

// cachedText is the value stored per image.
type cachedText struct {
	Text string `json:"text"`
}

// Cached remembers successful extractions by image content. Failures are
// never cached, so a retry reaches the backend again.
type Cached struct {
	next    Extractor
	cache   *cache.TypedCache[cachedText]
	backend string
}

// NewCached wraps next. backend names the extractor configuration so that
// switching models does not serve stale results.
func NewCached(next Extractor, c cache.Cache, backend string, ttl time.Duration) *Cached {
	return &Cached{
		next:    next,
		cache:   cache.NewTypedCache[cachedText](c, ttl),
		backend: backend,
	}
}

// ExtractText implements Extractor.
func (c *Cached) ExtractText(ctx context.Context, img model.ImageRef) (string, error) {
	key := cache.Key(cache.NamespaceText, []byte(c.backend), img.Data)
	v, err := c.cache.GetOrSet(ctx, key, func() (*cachedText, error) {
		text, err := c.next.ExtractText(ctx, img)
		if err != nil {
			return nil, err
		}
		return &cachedText{Text: text}, nil
	})
	if err != nil {
		return "", err
	}
	return v.Text, nil
}
