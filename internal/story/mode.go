// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

// ModeKind enumerates the editing modes.
type ModeKind uint8

const (
	ModeIdle ModeKind = iota
	ModeInserting
	ModeEditing
)

func (k ModeKind) String() string {
	switch k {
	case ModeInserting:
		return "inserting"
	case ModeEditing:
		return "editing"
	default:
		return "idle"
	}
}

// EditMode is what a form commit will do. Inserting and editing carry the
// id of the page they anchor to; they can never both be active.
type EditMode struct {
	kind   ModeKind
	pageID string
}

// Idle appends new pages at the end.
func Idle() EditMode { return EditMode{} }

// InsertingAfter splices new pages after the given page.
func InsertingAfter(pageID string) EditMode {
	return EditMode{kind: ModeInserting, pageID: pageID}
}

// Editing overwrites the given page.
func Editing(pageID string) EditMode {
	return EditMode{kind: ModeEditing, pageID: pageID}
}

// Kind returns the mode kind.
func (m EditMode) Kind() ModeKind { return m.kind }

// PageID returns the anchor page id, empty when idle.
func (m EditMode) PageID() string { return m.pageID }

// ModeView is the index-based form of EditMode sent to clients.
type ModeView struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

func (c *Collection) modeViewLocked() ModeView {
	if c.mode.kind == ModeIdle {
		return ModeView{Kind: ModeIdle.String(), Index: -1}
	}
	return ModeView{Kind: c.mode.kind.String(), Index: c.indexOf(c.mode.pageID)}
}

// Mode returns the current edit mode.
func (c *Collection) Mode() EditMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}
