// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"sync/atomic"
	"time"
)

// Stats holds cache statistics.
type Stats struct {
	Hits    int64      `json:"hits"`
	Misses  int64      `json:"misses"`
	Sets    int64      `json:"sets"`
	Items   int        `json:"items"`
	HitRate float64    `json:"hit_rate"`
	Size    int64      `json:"size_bytes,omitempty"` // approximate, memory backend only
	ResetAt *time.Time `json:"reset_at,omitempty"`
}

// counters is embedded by every backend.
type counters struct {
	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	resetAt atomic.Pointer[time.Time]
}

func (c *counters) snapshot(items int, size int64) Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		HitRate: hitRate,
		Size:    size,
		ResetAt: c.resetAt.Load(),
	}
}

// ResetStats zeroes the hit, miss and set counters.
func (c *counters) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	now := time.Now()
	c.resetAt.Store(&now)
}
