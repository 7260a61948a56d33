// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"github.com/olegiv/storybook-go/internal/geometry"
	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/overlay"
)

// GestureStart describes a pointer going down on an overlay.
type GestureStart struct {
	PageIndex int            `json:"pageIndex"`
	Overlay   overlay.Ref    `json:"overlay"`
	Kind      geometry.Kind  `json:"kind"`
	Pointer   geometry.Point `json:"pointer"`
	Rect      geometry.Rect  `json:"overlayRect"`
	Container geometry.Rect  `json:"containerRect"`
}

// BeginGesture registers a drag or resize on an overlay and returns its id.
// The gesture is dropped automatically if its page is deleted first.
func (c *Collection) BeginGesture(s GestureStart) (string, error) {
	if err := s.Overlay.Validate(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(s.PageIndex)
	if err != nil {
		return "", err
	}
	if _, err := overlay.Geometry(p, s.Overlay); err != nil {
		return "", err
	}
	g := geometry.Begin(s.Kind, s.Pointer, s.Rect, s.Container, overlay.MinSize(s.Overlay.Kind))
	return c.gestures.Begin(p.ID, s.Overlay.String(), g), nil
}

// MoveGesture feeds a pointer position to a gesture. The returned rect is
// for display only; the page is not changed.
func (c *Collection) MoveGesture(id string, pointer geometry.Point) (geometry.Rect, error) {
	return c.gestures.Move(id, pointer)
}

// EndGesture finishes a gesture and commits the resulting geometry to the
// overlay it started on.
func (c *Collection) EndGesture(id string, container geometry.Rect) (geometry.Geometry, error) {
	g, pageID, target, err := c.gestures.Finish(id)
	if err != nil {
		return geometry.Geometry{}, err
	}
	ref, err := overlay.ParseRef(target)
	if err != nil {
		return geometry.Geometry{}, err
	}
	result := g.End(container)
	if err := c.CommitOverlayGeometry(pageID, ref, result); err != nil {
		return geometry.Geometry{}, err
	}
	c.logger.Debug("gesture committed", "category", model.EventCategoryGesture,
		"page_id", pageID, "overlay", target, "kind", g.Kind().String())
	return result, nil
}

// CancelGesture abandons a gesture without committing.
func (c *Collection) CancelGesture(id string) bool {
	return c.gestures.Cancel(id)
}

// ActiveGestures returns the number of gestures in flight.
func (c *Collection) ActiveGestures() int {
	return c.gestures.Len()
}

// CommitOverlayGeometry stores finished geometry on an overlay of the page
// with the given id.
func (c *Collection) CommitOverlayGeometry(pageID string, ref overlay.Ref, g geometry.Geometry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(pageID)
	if i < 0 {
		return ErrPageNotFound
	}
	return overlay.SetGeometry(c.pages[i], ref, g)
}
