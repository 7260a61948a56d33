// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"image"
	"image/color"
	"slices"
	"sync/atomic"

	"github.com/olegiv/storybook-go/internal/export"
	"github.com/olegiv/storybook-go/internal/story"
)

// Book is the drawable form of a story snapshot.
type Book struct {
	raster    *Rasterizer
	snap      story.Snapshot
	exporting atomic.Bool
}

// NewBook creates a book over snap. The snapshot is never modified.
func NewBook(raster *Rasterizer, snap story.Snapshot) *Book {
	return &Book{raster: raster, snap: snap}
}

// EnterExportMode hides all editing chrome.
func (b *Book) EnterExportMode() { b.exporting.Store(true) }

// ExitExportMode restores editing chrome.
func (b *Book) ExitExportMode() { b.exporting.Store(false) }

// Exporting reports whether the book is in export mode.
func (b *Book) Exporting() bool { return b.exporting.Load() }

// PageSurfaces returns the title page when the title is set, every story
// page, and the end page when it is enabled. A book without story pages has
// no surfaces at all.
func (b *Book) PageSurfaces() []export.PageSurface {
	if len(b.snap.Pages) == 0 {
		return nil
	}
	st := b.snap.Story
	out := make([]export.PageSurface, 0, len(b.snap.Pages)+2)

	if st.TitleSet {
		out = append(out, &pageSurface{book: b, index: -1, spec: PageSpec{
			Kind: KindTitle, Style: st.Style, Title: st.Title, Subtitle: st.Subtitle,
		}})
	}
	for i, p := range b.snap.Pages {
		out = append(out, &pageSurface{book: b, index: i, spec: PageSpec{
			Kind: KindStory, Style: st.Style, Page: p, Number: i + 1,
		}})
	}
	if st.EndPage.Enabled {
		out = append(out, &pageSurface{book: b, index: -1, spec: PageSpec{
			Kind: KindEnd, Style: st.Style, Title: st.EndPage.Title, Subtitle: st.EndPage.Subtitle,
		}})
	}
	return out
}

// chrome returns the editor decoration for story page i.
func (b *Book) chrome(i int) Chrome {
	if i < 0 || b.Exporting() {
		return Chrome{}
	}
	return EditorChrome(slices.Contains(b.snap.Selection, i), i == b.snap.CutIndex)
}

type pageSurface struct {
	book  *Book
	index int
	spec  PageSpec
}

func (s *pageSurface) Rasterize(ctx context.Context, scale float64, background color.Color) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.book.raster.Render(s.spec, Options{
		Scale:      scale,
		Background: background,
		Chrome:     s.book.chrome(s.index),
	})
}
