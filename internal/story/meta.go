// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/storybook-go/internal/model"
)

// ErrEmptyImport is returned when an import leaves no pages after the cover
// is dropped.
var ErrEmptyImport = errors.New("document has no story pages")

// SetTitle sets the title page text. An empty title unsets it.
func (c *Collection) SetTitle(title, subtitle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.story.Title = strings.TrimSpace(sanitizeText(title))
	c.story.Subtitle = strings.TrimSpace(sanitizeText(subtitle))
	c.story.TitleSet = c.story.Title != ""
}

// SetEndPage configures the closing page. An empty title falls back to the
// default heading.
func (c *Collection) SetEndPage(enabled bool, title, subtitle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	title = strings.TrimSpace(sanitizeText(title))
	if title == "" {
		title = model.DefaultEndPageTitle
	}
	c.story.EndPage = model.EndPage{
		Enabled:  enabled,
		Title:    title,
		Subtitle: strings.TrimSpace(sanitizeText(subtitle)),
	}
}

// SetStyle replaces the visual style after validating it.
func (c *Collection) SetStyle(s model.Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Font == "" {
		s.Font = model.DefaultFont
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.story.Style = s
	for _, p := range c.pages {
		p.Touch()
	}
	return nil
}

// ApplyTemplate switches the story to a template's style.
func (c *Collection) ApplyTemplate(t model.Template) error {
	if err := c.SetStyle(t.Style); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}
	return nil
}

// Style returns the current visual style.
func (c *Collection) Style() model.Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.story.Style
}

// RequireTitle returns ErrTitleNotSet until a title has been set.
func (c *Collection) RequireTitle() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.story.TitleSet {
		return ErrTitleNotSet
	}
	return nil
}

// Reset discards every page and all story metadata.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(nil)
	c.story = model.NewStory()
}

// ReplaceWithImport replaces all pages with images imported from a
// document. The first image is the document's cover and is dropped; title
// becomes the story title. The style is kept.
func (c *Collection) ReplaceWithImport(title string, images []model.ImageRef) (int, error) {
	if len(images) > model.MaxPages+1 {
		return 0, fmt.Errorf("%w: document has %d pages, limit is %d", ErrTooManyPages, len(images)-1, model.MaxPages)
	}
	if len(images) < 2 {
		return 0, ErrEmptyImport
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	pages := make([]*model.Page, 0, len(images)-1)
	for _, img := range images[1:] {
		pages = append(pages, c.newPage(img))
	}
	c.replaceLocked(pages)
	c.story.Title = strings.TrimSpace(sanitizeText(title))
	c.story.Subtitle = ""
	c.story.TitleSet = true
	c.logger.Info("story replaced from import", "category", model.EventCategoryImport, "pages", len(pages))
	return len(pages), nil
}

func (c *Collection) replaceLocked(pages []*model.Page) {
	for _, p := range c.pages {
		c.gestures.ReleaseOwner(p.ID)
	}
	c.pages = pages
	c.mode = Idle()
	c.cutID = ""
	c.selected = make(map[string]uint64)
}
