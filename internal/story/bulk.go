// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"fmt"

	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/overlay"
)

// AddBoxToSelection gives every selected page a default text box. Pages that
// already have one keep it. It returns the number of boxes created.
func (c *Collection) AddBoxToSelection() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel := c.selectionLocked()
	if len(sel) == 0 {
		return 0, ErrNoSelection
	}
	return c.addBoxes(sel), nil
}

// AddBoxToPages is AddBoxToSelection for explicit indices.
func (c *Collection) AddBoxToPages(indices []int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndices(indices); err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, ErrNoTargets
	}
	return c.addBoxes(indices), nil
}

func (c *Collection) addBoxes(indices []int) int {
	created := 0
	for _, i := range indices {
		if overlay.EnsureBox(c.pages[i]) {
			created++
		}
	}
	return created
}

// AddStickerToSelection appends a new sticker to every selected page, or to
// every page when applyToAll is set. It fails when that leaves no pages.
func (c *Collection) AddStickerToSelection(src string, applyToAll bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var targets []int
	if applyToAll {
		targets = make([]int, len(c.pages))
		for i := range c.pages {
			targets[i] = i
		}
	} else {
		targets = c.selectionLocked()
	}
	return c.addStickers(targets, src)
}

// AddStickerToPages is AddStickerToSelection for explicit indices.
func (c *Collection) AddStickerToPages(indices []int, src string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndices(indices); err != nil {
		return 0, err
	}
	return c.addStickers(indices, src)
}

func (c *Collection) addStickers(targets []int, src string) (int, error) {
	if len(targets) == 0 {
		return 0, ErrNoTargets
	}
	for _, i := range targets {
		if _, err := overlay.AddSticker(c.pages[i], src); err != nil {
			return 0, err
		}
	}
	return len(targets), nil
}

// CopyBoxStyle copies the text box of the page selected first onto every
// other selected page. At least two pages must be selected and the source
// must have a box. The whole box is copied, text included.
func (c *Collection) CopyBoxStyle() (source int, copied int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel := c.selectionLocked()
	if len(sel) < 2 {
		return -1, 0, ErrSelectionTooSmall
	}
	source = c.firstSelectedLocked()
	copied, err = c.copyBox(source, sel)
	return source, copied, err
}

// CopyBoxStyleFrom copies the box of source onto targets. A target equal to
// source is skipped.
func (c *Collection) CopyBoxStyleFrom(source int, targets []int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.pageAt(source); err != nil {
		return 0, err
	}
	if err := c.checkIndices(targets); err != nil {
		return 0, err
	}
	return c.copyBox(source, targets)
}

func (c *Collection) copyBox(source int, targets []int) (int, error) {
	src := c.pages[source]
	if src.Box == nil {
		return 0, fmt.Errorf("%w: page %d", ErrSourceHasNoBox, source+1)
	}
	copied := 0
	for _, i := range targets {
		if i == source {
			continue
		}
		c.pages[i].Box = overlay.CloneBox(src.Box)
		c.pages[i].Touch()
		copied++
	}
	return copied, nil
}

func (c *Collection) checkIndices(indices []int) error {
	for _, i := range indices {
		if _, err := c.pageAt(i); err != nil {
			return err
		}
	}
	return nil
}

// PagePatch holds in-place edits made on the page view. Nil fields are left
// alone.
type PagePatch struct {
	Text       *string `json:"text,omitempty"`
	Title      *string `json:"title,omitempty"`
	TitleColor *string `json:"titleColor,omitempty"`
	BoxText    *string `json:"boxText,omitempty"`
}

// UpdatePage applies patch to the page at idx.
func (c *Collection) UpdatePage(idx int, patch PagePatch) (*model.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return nil, err
	}
	if patch.Text != nil {
		p.Text = sanitizeText(*patch.Text)
	}
	if patch.Title != nil {
		p.Title = sanitizeText(*patch.Title)
	}
	if patch.TitleColor != nil {
		p.TitleColor = *patch.TitleColor
	}
	if patch.BoxText != nil {
		overlay.SetBoxText(p, sanitizeText(*patch.BoxText))
	}
	p.Touch()
	return p.Clone(), nil
}

// DeleteSticker removes one sticker from the page at idx.
func (c *Collection) DeleteSticker(idx int, stickerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return err
	}
	return overlay.DeleteSticker(p, stickerID)
}
