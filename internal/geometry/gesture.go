// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geometry

import (
	"fmt"
	"math"
)

// Kind identifies what a gesture does to an overlay.
type Kind uint8

// Gesture kinds. Resize kinds are named after the handle being dragged.
const (
	Move Kind = iota
	ResizeN
	ResizeS
	ResizeE
	ResizeW
	ResizeNE
	ResizeNW
	ResizeSE
	ResizeSW
)

var kindNames = [...]string{
	Move:     "move",
	ResizeN:  "resize-n",
	ResizeS:  "resize-s",
	ResizeE:  "resize-e",
	ResizeW:  "resize-w",
	ResizeNE: "resize-ne",
	ResizeNW: "resize-nw",
	ResizeSE: "resize-se",
	ResizeSW: "resize-sw",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a wire name such as "resize-se" back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown gesture kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// edges returns which sides of the rectangle follow the pointer.
func (k Kind) edges() (north, south, east, west bool) {
	switch k {
	case ResizeN:
		north = true
	case ResizeS:
		south = true
	case ResizeE:
		east = true
	case ResizeW:
		west = true
	case ResizeNE:
		north, east = true, true
	case ResizeNW:
		north, west = true, true
	case ResizeSE:
		south, east = true, true
	case ResizeSW:
		south, west = true, true
	}
	return north, south, east, west
}

// Gesture is one drag or resize of one overlay.
//
// Begin captures everything the gesture needs; Update is pure with respect to
// the captured state, so replaying the same pointer always yields the same
// rect regardless of how many intermediate updates arrived.
type Gesture struct {
	kind    Kind
	start   Point
	origin  Rect // relative to the container
	bounds  Size
	min     Size
	current Rect
}

// Begin starts a gesture. overlay and container are absolute screen rects.
func Begin(kind Kind, pointer Point, overlay, container Rect, min Size) *Gesture {
	origin := Rect{
		X:      overlay.X - container.X,
		Y:      overlay.Y - container.Y,
		Width:  overlay.Width,
		Height: overlay.Height,
	}
	return &Gesture{
		kind:    kind,
		start:   pointer,
		origin:  origin,
		bounds:  container.Size(),
		min:     min,
		current: origin,
	}
}

// Kind returns the gesture kind.
func (g *Gesture) Kind() Kind { return g.kind }

// Current returns the last rect computed by Update, relative to the container.
func (g *Gesture) Current() Rect { return g.current }

// Update moves the pointer and returns the overlay's new pixel rect relative to
// the container. Nothing is committed until End.
//
// The raw delta is applied first, then the floor clamp (non-negative
// position, minimum size), then containment: a move pulls the position back,
// a resize shrinks the size.
func (g *Gesture) Update(pointer Point) Rect {
	dx := pointer.X - g.start.X
	dy := pointer.Y - g.start.Y
	r := g.origin

	if g.kind == Move {
		r.X += dx
		r.Y += dy
		r.X = math.Max(0, r.X)
		r.Y = math.Max(0, r.Y)
		r.X = math.Min(r.X, g.bounds.Width-r.Width)
		r.Y = math.Min(r.Y, g.bounds.Height-r.Height)
	} else {
		north, south, east, west := g.kind.edges()
		right := g.origin.X + g.origin.Width
		bottom := g.origin.Y + g.origin.Height
		if east {
			r.Width += dx
		}
		if west {
			r.Width -= dx
			r.X += dx
		}
		if south {
			r.Height += dy
		}
		if north {
			r.Height -= dy
			r.Y += dy
		}

		// Floor. A dragged west/north edge stops where the minimum size
		// is reached instead of pushing the box across.
		r.Width = math.Max(g.min.Width, r.Width)
		r.Height = math.Max(g.min.Height, r.Height)
		if west {
			r.X = math.Min(r.X, right-r.Width)
		}
		if north {
			r.Y = math.Min(r.Y, bottom-r.Height)
		}
		if r.X < 0 {
			if west {
				r.Width += r.X
			}
			r.X = 0
		}
		if r.Y < 0 {
			if north {
				r.Height += r.Y
			}
			r.Y = 0
		}

		r.Width = math.Min(r.Width, g.bounds.Width-r.X)
		r.Height = math.Min(r.Height, g.bounds.Height-r.Y)
	}

	g.current = g.fit(r)
	return g.current
}

// fit keeps r inside the container even when the container is smaller than
// the minimum size.
func (g *Gesture) fit(r Rect) Rect {
	r.Width = clamp(r.Width, 0, g.bounds.Width)
	r.Height = clamp(r.Height, 0, g.bounds.Height)
	r.X = clamp(r.X, 0, g.bounds.Width-r.Width)
	r.Y = clamp(r.Y, 0, g.bounds.Height-r.Height)
	return r
}

// End converts the final rect into percentages of the container's current
// size. It is the only point where a gesture produces persistent geometry.
func (g *Gesture) End(container Rect) Geometry {
	size := container.Size()
	if size.Width <= 0 || size.Height <= 0 {
		size = g.bounds
	}
	return FromPixels(g.current, size).Clamp()
}
