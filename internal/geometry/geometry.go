// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geometry converts pointer gestures on page overlays into
// percentage-based geometry.
//
// Overlays are stored as percentages of the page surface so they survive any
// container size. While a gesture is in flight all arithmetic happens in
// pixels; the conversion back to percentages happens once, when the gesture
// ends.
package geometry

import "math"

// Point is a pointer position in screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry is an overlay position and size in percent of its container.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether g lies fully inside its container.
func (g Geometry) Valid() bool {
	for _, v := range []float64{g.X, g.Y, g.Width, g.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	const eps = 1e-9
	return g.X >= 0 && g.Y >= 0 && g.Width >= 0 && g.Height >= 0 &&
		g.X+g.Width <= 100+eps && g.Y+g.Height <= 100+eps
}

// Clamp returns g forced into the container: sizes are capped at 100 and
// positions are pulled back so the far edges stay within 100.
func (g Geometry) Clamp() Geometry {
	g.Width = clamp(g.Width, 0, 100)
	g.Height = clamp(g.Height, 0, 100)
	g.X = clamp(g.X, 0, 100-g.Width)
	g.Y = clamp(g.Y, 0, 100-g.Height)
	return g
}

// ToPixels maps g onto a container, returning a rect relative to the
// container origin.
func (g Geometry) ToPixels(container Size) Rect {
	return Rect{
		X:      g.X / 100 * container.Width,
		Y:      g.Y / 100 * container.Height,
		Width:  g.Width / 100 * container.Width,
		Height: g.Height / 100 * container.Height,
	}
}

// FromPixels converts a container-relative pixel rect into percentages.
// A degenerate container yields the zero Geometry.
func FromPixels(r Rect, container Size) Geometry {
	if container.Width <= 0 || container.Height <= 0 {
		return Geometry{}
	}
	return Geometry{
		X:      r.X / container.Width * 100,
		Y:      r.Y / container.Height * 100,
		Width:  r.Width / container.Width * 100,
		Height: r.Height / container.Height * 100,
	}
}

// Size returns the rect's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
