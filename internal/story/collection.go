// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package story owns the ordered page collection of a storybook and every
// editing operation on it: the add/edit form, cut and paste, reordering,
// selection, bulk overlay operations and batch text extraction.
//
// A Collection is safe for concurrent use. Edit mode, the cut marker and the
// selection reference pages by id, so structural changes can never leave
// them pointing at a different page; indices are derived on read.
package story

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/olegiv/storybook-go/internal/geometry"
	"github.com/olegiv/storybook-go/internal/model"
)

var (
	ErrIndexOutOfRange   = errors.New("page index out of range")
	ErrPageNotFound      = errors.New("page not found")
	ErrTextRequired      = errors.New("story text is required")
	ErrImageRequired     = errors.New("at least one image is required")
	ErrTooManyPages      = errors.New("page limit exceeded")
	ErrNoSelection       = errors.New("no pages selected")
	ErrSelectionTooSmall = errors.New("select a source page and at least one target page")
	ErrSourceHasNoBox    = errors.New("source page has no text box")
	ErrNoTargets         = errors.New("no target pages")
	ErrTitleNotSet       = errors.New("story title is not set")
)

// Collection is the single-user story being edited.
type Collection struct {
	mu       sync.Mutex
	story    model.Story
	pages    []*model.Page
	mode     EditMode
	cutID    string
	// selected maps page ids to the order in which they were selected.
	selected map[string]uint64
	selSeq   uint64

	gestures *geometry.Tracker
	logger   *slog.Logger
}

// New creates an empty story.
func New(logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		story:    model.NewStory(),
		selected: make(map[string]uint64),
		gestures: geometry.NewTracker(),
		logger:   logger,
	}
}

// Snapshot is a consistent, deep-copied view of the collection.
type Snapshot struct {
	Story         model.Story   `json:"story"`
	Pages         []*model.Page `json:"pages"`
	Mode          ModeView      `json:"mode"`
	CutIndex      int           `json:"cutIndex"`
	Selection     []int         `json:"selection"`
	SelectionText string        `json:"selectionText"`
}

// Snapshot returns a copy of the current state.
func (c *Collection) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	pages := make([]*model.Page, len(c.pages))
	for i, p := range c.pages {
		pages[i] = p.Clone()
	}
	sel := c.selectionLocked()
	return Snapshot{
		Story:         c.story,
		Pages:         pages,
		Mode:          c.modeViewLocked(),
		CutIndex:      c.indexOf(c.cutID),
		Selection:     sel,
		SelectionText: FormatSelection(sel),
	}
}

// Len returns the number of pages.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}

// Page returns a copy of the page at idx.
func (c *Collection) Page(idx int) (*model.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// PageByID returns a copy of the page with the given id and its index.
func (c *Collection) PageByID(id string) (*model.Page, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return nil, -1, ErrPageNotFound
	}
	return c.pages[i].Clone(), i, nil
}

// Story returns the story metadata.
func (c *Collection) Story() model.Story {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.story
}

func (c *Collection) pageAt(idx int) (*model.Page, error) {
	if idx < 0 || idx >= len(c.pages) {
		return nil, fmt.Errorf("%w: %d (have %d pages)", ErrIndexOutOfRange, idx, len(c.pages))
	}
	return c.pages[idx], nil
}

func (c *Collection) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.pages, func(p *model.Page) bool { return p.ID == id })
}

func (c *Collection) newPage(img model.ImageRef) *model.Page {
	return &model.Page{
		ID:         uuid.New().String(),
		Image:      img,
		TitleColor: c.story.Style.Theme.Story.TextColor,
		Stickers:   []model.Sticker{},
	}
}

// forget drops every reference to a page that no longer exists.
func (c *Collection) forget(id string) {
	if c.cutID == id {
		c.cutID = ""
	}
	if c.mode.pageID == id {
		c.mode = Idle()
	}
	delete(c.selected, id)
	if n := c.gestures.ReleaseOwner(id); n > 0 {
		c.logger.Debug("released gestures of removed page", "page_id", id, "count", n)
	}
}
