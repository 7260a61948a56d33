// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"

	"github.com/olegiv/storybook-go/internal/geometry"
)

// Page is one illustrated page of a story.
type Page struct {
	ID         string   `json:"id"`
	Image      ImageRef `json:"image"`
	Text       string   `json:"text"`
	Title      string   `json:"title,omitempty"`
	TitleColor string   `json:"titleColor,omitempty"`

	Box      *TextBox  `json:"box,omitempty"`
	Stickers []Sticker `json:"stickers"`

	// ExtractionError holds the message of the last failed text
	// extraction for this page. Empty when the last attempt succeeded.
	ExtractionError string `json:"extractionError,omitempty"`

	// Revision increases on every change and keys rendered previews.
	Revision int64 `json:"revision"`
}

// TextBox is the free-text box overlay. A page has at most one.
type TextBox struct {
	geometry.Geometry
	Text string `json:"text"`
}

// Sticker is a decorative overlay. Src is a catalog reference: SVG markup
// or a data URI.
type Sticker struct {
	ID  string `json:"id"`
	Src string `json:"src"`
	geometry.Geometry
}

// Clone returns a copy of p that shares only the immutable image bytes.
func (p *Page) Clone() *Page {
	c := *p
	if p.Box != nil {
		box := *p.Box
		c.Box = &box
	}
	c.Stickers = slices.Clone(p.Stickers)
	if c.Stickers == nil {
		c.Stickers = []Sticker{}
	}
	return &c
}

// Touch marks the page as changed.
func (p *Page) Touch() {
	p.Revision++
}

// StickerIndex returns the position of the sticker with the given id, or -1.
func (p *Page) StickerIndex(id string) int {
	return slices.IndexFunc(p.Stickers, func(s Sticker) bool { return s.ID == id })
}
