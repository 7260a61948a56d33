// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package export

import (
	"context"
	"image"
	"image/color"
)

// PageSurface is one exportable page.
type PageSurface interface {
	// Rasterize draws the page at scale times its base size onto background.
	Rasterize(ctx context.Context, scale float64, background color.Color) (image.Image, error)
}

// Surface is the book being exported. While in export mode it must draw
// no editing chrome.
type Surface interface {
	EnterExportMode()
	ExitExportMode()
	// PageSurfaces returns the pages in reading order: the title page when a
	// title is set, every story page, and the end page when enabled. It is
	// empty when there are no story pages.
	PageSurfaces() []PageSurface
}
