// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/storybook-go/internal/geometry"
	"github.com/olegiv/storybook-go/internal/model"
)

func TestEnsureBoxIsIdempotent(t *testing.T) {
	p := &model.Page{ID: "p1"}

	assert.True(t, EnsureBox(p))
	require.NotNil(t, p.Box)
	assert.Equal(t, DefaultBoxGeometry, p.Box.Geometry)
	assert.Empty(t, p.Box.Text)

	p.Box.Text = "keep me"
	rev := p.Revision
	assert.False(t, EnsureBox(p))
	assert.Equal(t, "keep me", p.Box.Text)
	assert.Equal(t, rev, p.Revision)
}

func TestAddStickerNeverDedupes(t *testing.T) {
	p := &model.Page{ID: "p1"}

	a, err := AddSticker(p, "<svg/>")
	require.NoError(t, err)
	b, err := AddSticker(p, "<svg/>")
	require.NoError(t, err)

	assert.Len(t, p.Stickers, 2)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, DefaultStickerGeometry, a.Geometry)

	_, err = AddSticker(p, "  ")
	assert.ErrorIs(t, err, ErrEmptySticker)
}

func TestDeleteSticker(t *testing.T) {
	p := &model.Page{ID: "p1"}
	a, _ := AddSticker(p, "a")
	b, _ := AddSticker(p, "b")

	require.NoError(t, DeleteSticker(p, a.ID))
	require.Len(t, p.Stickers, 1)
	assert.Equal(t, b.ID, p.Stickers[0].ID)
	assert.ErrorIs(t, DeleteSticker(p, a.ID), ErrStickerNotFound)
}

func TestCloneBoxCopiesText(t *testing.T) {
	src := &model.TextBox{Geometry: geometry.Geometry{X: 5, Y: 5, Width: 50, Height: 50}, Text: "hi"}
	c := CloneBox(src)
	assert.Equal(t, *src, *c)
	c.Text = "changed"
	assert.Equal(t, "hi", src.Text)
	assert.Nil(t, CloneBox(nil))
}

func TestSetGeometry(t *testing.T) {
	p := &model.Page{ID: "p1"}
	s, _ := AddSticker(p, "x")

	err := SetGeometry(p, BoxRef(), geometry.Geometry{X: 1, Y: 1, Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrNoBox)

	EnsureBox(p)
	require.NoError(t, SetGeometry(p, BoxRef(), geometry.Geometry{X: 95, Y: 0, Width: 20, Height: 10}))
	assert.Equal(t, geometry.Geometry{X: 80, Y: 0, Width: 20, Height: 10}, p.Box.Geometry)

	require.NoError(t, SetGeometry(p, StickerRef(s.ID), geometry.Geometry{X: 1, Y: 2, Width: 3, Height: 4}))
	got, err := Geometry(p, StickerRef(s.ID))
	require.NoError(t, err)
	assert.Equal(t, geometry.Geometry{X: 1, Y: 2, Width: 3, Height: 4}, got)

	err = SetGeometry(p, BoxRef(), geometry.Geometry{X: math.NaN(), Width: 10, Height: 10})
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
	assert.ErrorIs(t, SetGeometry(p, StickerRef("missing"), geometry.Geometry{}), ErrStickerNotFound)
}

func TestRefRoundTrip(t *testing.T) {
	for _, ref := range []Ref{BoxRef(), StickerRef("abc")} {
		got, err := ParseRef(ref.String())
		require.NoError(t, err)
		assert.Equal(t, ref, got)
		assert.NoError(t, ref.Validate())
	}
	_, err := ParseRef("sticker:")
	assert.ErrorIs(t, err, ErrInvalidRef)
	assert.Error(t, Ref{Kind: KindBox, ID: "x"}.Validate())
}

func TestMinSize(t *testing.T) {
	assert.Equal(t, geometry.Size{Width: 50, Height: 20}, MinSize(KindBox))
	assert.Equal(t, geometry.Size{Width: 20, Height: 20}, MinSize(KindSticker))
}
