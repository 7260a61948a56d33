// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/olegiv/storybook-go/internal/geometry"
)

// canvas is a page bitmap addressed in layout units.
type canvas struct {
	img        *image.NRGBA
	scale      float64
	background color.Color
}

func newCanvas(scale float64, background color.Color) *canvas {
	w := int(math.Round(BaseWidth * scale))
	h := int(math.Round(BaseHeight * scale))
	return &canvas{
		img:        imaging.New(w, h, background),
		scale:      scale,
		background: background,
	}
}

func (c *canvas) px(units float64) int {
	return int(math.Round(units * c.scale))
}

func (c *canvas) bounds() image.Rectangle { return c.img.Bounds() }

func (c *canvas) size() geometry.Size { return pageSize(c.scale) }

func (c *canvas) rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(c.px(x), c.px(y), c.px(x+w), c.px(y+h))
}

func (c *canvas) point(x, y float64) image.Point {
	return image.Pt(c.px(x), c.px(y))
}

func (c *canvas) inset(r image.Rectangle, units float64) image.Rectangle {
	return r.Inset(c.px(units))
}

func (c *canvas) grow(r image.Rectangle, units float64) image.Rectangle {
	return r.Inset(-c.px(units))
}

func (c *canvas) pixelRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)),
	)
}

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// stroke draws a border of the given width inside r.
func (c *canvas) stroke(r image.Rectangle, width float64, col color.Color) {
	n := max(1, c.px(width))
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+n), col)
	c.fill(image.Rect(r.Min.X, r.Max.Y-n, r.Max.X, r.Max.Y), col)
	c.fill(image.Rect(r.Min.X, r.Min.Y+n, r.Min.X+n, r.Max.Y-n), col)
	c.fill(image.Rect(r.Max.X-n, r.Min.Y+n, r.Max.X, r.Max.Y-n), col)
}

func (c *canvas) disc(center image.Point, radius float64, col color.Color) {
	rpx := c.px(radius)
	src := image.NewUniform(col)
	for dy := -rpx; dy <= rpx; dy++ {
		half := int(math.Sqrt(float64(rpx*rpx - dy*dy)))
		row := image.Rect(center.X-half, center.Y+dy, center.X+half+1, center.Y+dy+1)
		draw.Draw(c.img, row, src, image.Point{}, draw.Over)
	}
}

// placeholder marks a sticker whose source could not be drawn.
func (c *canvas) placeholder(r image.Rectangle, col color.Color) {
	c.fill(r, withAlpha(col, 0x40))
	c.stroke(r, 1, col)
	w, h := r.Dx(), r.Dy()
	if w == 0 || h == 0 {
		return
	}
	for i := 0; i < w; i++ {
		y := i * h / w
		c.img.Set(r.Min.X+i, r.Min.Y+y, col)
		c.img.Set(r.Max.X-1-i, r.Min.Y+y, col)
	}
}

// parseColor parses a hex color, returning fallback when it is unusable.
func parseColor(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func withAlpha(col color.Color, a uint8) color.NRGBA {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	n.A = a
	return n
}
