// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package overlay manages the free-text box and sticker overlays of a page.
package overlay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/storybook-go/internal/geometry"
	"github.com/olegiv/storybook-go/internal/model"
)

// Kind distinguishes overlay types.
type Kind string

const (
	KindBox     Kind = "box"
	KindSticker Kind = "sticker"
)

// Minimum on-screen sizes enforced while resizing.
var (
	BoxMinSize     = geometry.Size{Width: 50, Height: 20}
	StickerMinSize = geometry.Size{Width: 20, Height: 20}
)

// Geometry given to newly created overlays.
var (
	DefaultBoxGeometry     = geometry.Geometry{X: 10, Y: 10, Width: 80, Height: 25}
	DefaultStickerGeometry = geometry.Geometry{X: 40, Y: 40, Width: 20, Height: 20}
)

var (
	ErrNoBox           = errors.New("page has no text box")
	ErrStickerNotFound = errors.New("sticker not found")
	ErrInvalidGeometry = errors.New("geometry outside page")
	ErrInvalidRef      = errors.New("invalid overlay reference")
	ErrEmptySticker    = errors.New("sticker source is empty")
)

// MinSize returns the minimum resize size for kind.
func MinSize(kind Kind) geometry.Size {
	if kind == KindSticker {
		return StickerMinSize
	}
	return BoxMinSize
}

// Ref identifies one overlay on a page. ID is empty for the text box.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// BoxRef refers to a page's text box.
func BoxRef() Ref { return Ref{Kind: KindBox} }

// StickerRef refers to a sticker by id.
func StickerRef(id string) Ref { return Ref{Kind: KindSticker, ID: id} }

// String encodes the ref as "box" or "sticker:<id>".
func (r Ref) String() string {
	if r.Kind == KindSticker {
		return string(KindSticker) + ":" + r.ID
	}
	return string(KindBox)
}

// ParseRef is the inverse of Ref.String.
func ParseRef(s string) (Ref, error) {
	if s == string(KindBox) {
		return BoxRef(), nil
	}
	if id, ok := strings.CutPrefix(s, string(KindSticker)+":"); ok && id != "" {
		return StickerRef(id), nil
	}
	return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
}

// Validate checks the ref shape.
func (r Ref) Validate() error {
	switch {
	case r.Kind == KindBox && r.ID == "":
		return nil
	case r.Kind == KindSticker && r.ID != "":
		return nil
	}
	return fmt.Errorf("%w: %+v", ErrInvalidRef, r)
}

// NewBox returns an empty text box at the default position.
func NewBox() *model.TextBox {
	return &model.TextBox{Geometry: DefaultBoxGeometry}
}

// EnsureBox gives the page a default text box if it has none and reports
// whether one was created.
func EnsureBox(p *model.Page) bool {
	if p.Box != nil {
		return false
	}
	p.Box = NewBox()
	p.Touch()
	return true
}

// AddSticker appends a new sticker. Identical sources are never merged.
func AddSticker(p *model.Page, src string) (model.Sticker, error) {
	if strings.TrimSpace(src) == "" {
		return model.Sticker{}, ErrEmptySticker
	}
	s := model.Sticker{
		ID:       uuid.New().String(),
		Src:      src,
		Geometry: DefaultStickerGeometry,
	}
	p.Stickers = append(p.Stickers, s)
	p.Touch()
	return s, nil
}

// CloneBox copies the whole box record, text included.
func CloneBox(b *model.TextBox) *model.TextBox {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// SetBoxText writes the box text, creating the box first when needed.
func SetBoxText(p *model.Page, text string) {
	EnsureBox(p)
	p.Box.Text = text
	p.Touch()
}

// DeleteSticker removes the sticker with the given id.
func DeleteSticker(p *model.Page, id string) error {
	i := p.StickerIndex(id)
	if i < 0 {
		return ErrStickerNotFound
	}
	p.Stickers = append(p.Stickers[:i], p.Stickers[i+1:]...)
	p.Touch()
	return nil
}

// Geometry returns the current geometry of the referenced overlay.
func Geometry(p *model.Page, ref Ref) (geometry.Geometry, error) {
	switch ref.Kind {
	case KindBox:
		if p.Box == nil {
			return geometry.Geometry{}, ErrNoBox
		}
		return p.Box.Geometry, nil
	case KindSticker:
		i := p.StickerIndex(ref.ID)
		if i < 0 {
			return geometry.Geometry{}, ErrStickerNotFound
		}
		return p.Stickers[i].Geometry, nil
	}
	return geometry.Geometry{}, ErrInvalidRef
}

// SetGeometry commits a finished gesture to the referenced overlay. Geometry
// that is malformed is rejected; geometry that merely overhangs the page
// edge is clamped.
func SetGeometry(p *model.Page, ref Ref, g geometry.Geometry) error {
	clamped := g.Clamp()
	if !clamped.Valid() {
		return ErrInvalidGeometry
	}
	switch ref.Kind {
	case KindBox:
		if p.Box == nil {
			return ErrNoBox
		}
		p.Box.Geometry = clamped
	case KindSticker:
		i := p.StickerIndex(ref.ID)
		if i < 0 {
			return ErrStickerNotFound
		}
		p.Stickers[i].Geometry = clamped
	default:
		return ErrInvalidRef
	}
	p.Touch()
	return nil
}
