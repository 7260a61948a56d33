// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"slices"
	"strconv"
	"strings"
)

// ParseSelection reads a 1-based page list such as "1, 3-5, 9" for a story
// of n pages and returns the sorted, de-duplicated 0-based indices. A range
// uses its first two bounds, so "3-5-7" selects 3 to 5. Anything else is
// dropped without error, including numbers outside 1..n and reversed ranges.
func ParseSelection(text string, n int) []int {
	out := parseSelection(text, n)
	slices.Sort(out)
	return out
}

// parseSelection returns the indices in the order they appear in text.
func parseSelection(text string, n int) []int {
	seen := make(map[int]struct{})
	out := []int{}
	add := func(num int) {
		if num < 1 || num > n {
			return
		}
		if _, ok := seen[num-1]; !ok {
			seen[num-1] = struct{}{}
			out = append(out, num-1)
		}
	}

	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			bounds := strings.Split(part, "-")
			start, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err1 != nil || err2 != nil {
				continue
			}
			for i := max(start, 1); i <= min(end, n); i++ {
				add(i)
			}
			continue
		}
		if num, err := strconv.Atoi(part); err == nil {
			add(num)
		}
	}
	return out
}

// FormatSelection renders 0-based indices in the canonical text form
// ("1, 3, 4, 5").
func FormatSelection(indices []int) string {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	parts := make([]string, len(sorted))
	for i, idx := range sorted {
		parts[i] = strconv.Itoa(idx + 1)
	}
	return strings.Join(parts, ", ")
}

// SetSelectionText replaces the selection with the pages named in text and
// returns the regenerated canonical text. Pages count as selected in the
// order text names them.
func (c *Collection) SetSelectionText(text string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	indices := parseSelection(text, len(c.pages))
	c.selected = make(map[string]uint64, len(indices))
	for _, i := range indices {
		c.selectLocked(c.pages[i].ID)
	}
	return FormatSelection(indices)
}

// ToggleSelected adds or removes the page at idx from the selection.
func (c *Collection) ToggleSelected(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return err
	}
	if _, ok := c.selected[p.ID]; ok {
		delete(c.selected, p.ID)
	} else {
		c.selectLocked(p.ID)
	}
	return nil
}

// SelectAll selects every page.
func (c *Collection) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]uint64, len(c.pages))
	for _, p := range c.pages {
		c.selectLocked(p.ID)
	}
}

// ClearSelection empties the selection.
func (c *Collection) ClearSelection() {
	c.mu.Lock()
	c.selected = make(map[string]uint64)
	c.mu.Unlock()
}

func (c *Collection) selectLocked(id string) {
	c.selSeq++
	c.selected[id] = c.selSeq
}

// Selection returns the selected indices in ascending order.
func (c *Collection) Selection() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectionLocked()
}

// SelectionText returns the canonical text form of the selection.
func (c *Collection) SelectionText() string {
	return FormatSelection(c.Selection())
}

func (c *Collection) selectionLocked() []int {
	out := make([]int, 0, len(c.selected))
	for i, p := range c.pages {
		if _, ok := c.selected[p.ID]; ok {
			out = append(out, i)
		}
	}
	return out
}

// firstSelectedLocked returns the index of the earliest selected page that
// still exists, or -1.
func (c *Collection) firstSelectedLocked() int {
	first, firstSeq := -1, uint64(0)
	for i, p := range c.pages {
		if seq, ok := c.selected[p.ID]; ok && (first < 0 || seq < firstSeq) {
			first, firstSeq = i, seq
		}
	}
	return first
}
