// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasteAt(t *testing.T) {
	tests := []struct {
		name   string
		cut    int
		target int
		want   []string
	}{
		{"forward", 1, 3, []string{"p0", "p2", "p1", "p3"}},
		{"forward to end", 0, 4, []string{"p1", "p2", "p3", "p0"}},
		{"backward", 3, 1, []string{"p0", "p3", "p1", "p2"}},
		{"to the front", 2, 0, []string{"p2", "p0", "p1", "p3"}},
		{"onto itself", 2, 2, []string{"p0", "p1", "p2", "p3"}},
		{"just after itself", 2, 3, []string{"p0", "p1", "p2", "p3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCollection(t, 4)
			require.NoError(t, c.RequestCut(tt.cut))
			assert.Equal(t, tt.cut, c.CutIndex())

			require.NoError(t, c.PasteAt(tt.target))
			assert.Equal(t, tt.want, order(c))
			assert.Equal(t, -1, c.CutIndex())
		})
	}
}

func TestPasteAfterCutPageDeleted(t *testing.T) {
	tests := []struct {
		name   string
		cut    int
		target int
	}{
		{"target before", 2, 0},
		{"target after", 1, 3},
		{"target at end", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCollection(t, 4)
			require.NoError(t, c.RequestCut(tt.cut))
			require.NoError(t, c.DeletePage(tt.cut))
			before := order(c)

			require.NoError(t, c.PasteAt(tt.target))
			assert.Equal(t, before, order(c))
			assert.Equal(t, -1, c.CutIndex())
		})
	}
}

func TestPasteWithoutCutIsNoop(t *testing.T) {
	c := newCollection(t, 3)
	require.NoError(t, c.PasteAt(0))
	assert.Equal(t, []string{"p0", "p1", "p2"}, order(c))
}

func TestRequestCutToggles(t *testing.T) {
	c := newCollection(t, 3)
	require.NoError(t, c.RequestCut(1))
	assert.Equal(t, 1, c.CutIndex())
	require.NoError(t, c.RequestCut(1))
	assert.Equal(t, -1, c.CutIndex())

	require.NoError(t, c.RequestCut(1))
	require.NoError(t, c.RequestCut(2))
	assert.Equal(t, 2, c.CutIndex(), "cutting another page moves the mark")
}

func TestCutFollowsPageThroughReorder(t *testing.T) {
	c := newCollection(t, 4)
	require.NoError(t, c.RequestCut(0))
	require.NoError(t, c.Reorder(0, 3))
	assert.Equal(t, 3, c.CutIndex())
}

func TestReorder(t *testing.T) {
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"p1", "p2", "p0", "p3"}},
		{3, 0, []string{"p3", "p0", "p1", "p2"}},
		{1, 1, []string{"p0", "p1", "p2", "p3"}},
	}
	for _, tt := range tests {
		c := newCollection(t, 4)
		require.NoError(t, c.Reorder(tt.from, tt.to))
		assert.Equal(t, tt.want, order(c), "Reorder(%d, %d)", tt.from, tt.to)
	}

	c := newCollection(t, 2)
	assert.ErrorIs(t, c.Reorder(0, 2), ErrIndexOutOfRange)
}

func TestReorderAdjacentRoundTrip(t *testing.T) {
	tests := []struct{ i, j int }{
		{0, 1},
		{1, 0},
		{1, 2},
		{2, 3},
		{3, 2},
	}
	for _, tt := range tests {
		c := newCollection(t, 4)
		before := order(c)
		require.NoError(t, c.Reorder(tt.i, tt.j))
		assert.NotEqual(t, before, order(c))
		require.NoError(t, c.Reorder(tt.j, tt.i))
		assert.Equal(t, before, order(c), "Reorder(%d, %d) then Reorder(%d, %d)", tt.i, tt.j, tt.j, tt.i)
	}
}

func TestReorderPreservesMultiset(t *testing.T) {
	c := newCollection(t, 6)
	before := map[string]bool{}
	for _, tag := range order(c) {
		before[tag] = true
	}
	moves := [][2]int{{0, 5}, {5, 0}, {2, 4}, {4, 1}, {3, 3}}
	for _, m := range moves {
		require.NoError(t, c.Reorder(m[0], m[1]))
	}
	after := order(c)
	assert.Len(t, after, 6)
	for _, tag := range after {
		assert.True(t, before[tag], "unexpected page %s", tag)
		delete(before, tag)
	}
	assert.Empty(t, before)
}

func TestDeletePageClearsReferences(t *testing.T) {
	c := newCollection(t, 3)
	require.NoError(t, c.RequestCut(1))
	require.NoError(t, c.ToggleSelected(1))
	require.NoError(t, c.ToggleSelected(2))
	_, err := c.RequestEdit(1)
	require.NoError(t, err)

	require.NoError(t, c.DeletePage(1))

	assert.Equal(t, []string{"p0", "p2"}, order(c))
	assert.Equal(t, -1, c.CutIndex())
	assert.Equal(t, ModeIdle, c.Mode().Kind())
	assert.Equal(t, []int{1}, c.Selection(), "selection follows the surviving page")
}

func TestDeleteOtherPageKeepsCut(t *testing.T) {
	c := newCollection(t, 3)
	require.NoError(t, c.RequestCut(2))
	require.NoError(t, c.DeletePage(0))
	assert.Equal(t, 1, c.CutIndex())
}
