// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import "slices"

// RequestCut marks the page at idx for relocation. Cutting the page that is
// already cut clears the mark.
func (c *Collection) RequestCut(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return err
	}
	if c.cutID == p.ID {
		c.cutID = ""
	} else {
		c.cutID = p.ID
	}
	return nil
}

// CutIndex returns the index of the cut page, or -1.
func (c *Collection) CutIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(c.cutID)
}

// PasteAt moves the cut page so that it lands at target as seen before the
// removal: when the cut page sits before target, target shifts down by one.
// Without a cut page it does nothing. An out of range target leaves the cut
// pending; otherwise the cut mark is cleared.
func (c *Collection) PasteAt(target int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cut := c.indexOf(c.cutID)
	if cut < 0 {
		c.cutID = ""
		return nil
	}
	if target < 0 || target > len(c.pages) {
		return ErrIndexOutOfRange
	}

	adjusted := target
	if cut < target {
		adjusted = target - 1
	}
	c.move(cut, adjusted)
	c.cutID = ""
	return nil
}

// Reorder moves the page at from to position to in one splice.
func (c *Collection) Reorder(from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.pageAt(from); err != nil {
		return err
	}
	if _, err := c.pageAt(to); err != nil {
		return err
	}
	if from != to {
		c.move(from, to)
	}
	return nil
}

func (c *Collection) move(from, to int) {
	p := c.pages[from]
	c.pages = slices.Delete(c.pages, from, from+1)
	c.pages = slices.Insert(c.pages, to, p)
}

// DeletePage removes the page at idx together with any cut mark, pending
// edit, selection entry or in-flight gesture that refers to it.
func (c *Collection) DeletePage(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return err
	}
	c.pages = slices.Delete(c.pages, idx, idx+1)
	c.forget(p.ID)
	return nil
}
