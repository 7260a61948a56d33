// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/olegiv/storybook-go/internal/model"
)

// Throttled limits the rate of calls to another extractor.
type Throttled struct {
	next    Extractor
	limiter *rate.Limiter
}

// NewThrottled allows rps calls per second with bursts of up to burst.
func NewThrottled(next Extractor, rps float64, burst int) *Throttled {
	if burst < 1 {
		burst = 1
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// ExtractText waits for the limiter, then delegates.
func (t *Throttled) ExtractText(ctx context.Context, img model.ImageRef) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.next.ExtractText(ctx, img)
}
