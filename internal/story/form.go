// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"fmt"
	"strings"

	"github.com/olegiv/storybook-go/internal/model"
)

// Form is the content of the add/edit page form.
type Form struct {
	Text       string           `json:"text"`
	Title      string           `json:"title"`
	TitleColor string           `json:"titleColor"`
	Images     []model.ImageRef `json:"-"`
}

// CommitResult reports which pages a commit touched, by index after the commit.
type CommitResult struct {
	Mode    string `json:"mode"`
	Indices []int  `json:"indices"`
}

// RequestInsertAfter makes the next commit splice new pages after idx. Any
// pending edit is abandoned.
func (c *Collection) RequestInsertAfter(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return err
	}
	c.mode = InsertingAfter(p.ID)
	return nil
}

// RequestEdit switches to editing the page at idx and returns the form
// pre-filled from it.
func (c *Collection) RequestEdit(idx int) (Form, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.pageAt(idx)
	if err != nil {
		return Form{}, err
	}
	c.mode = Editing(p.ID)

	color := p.TitleColor
	if color == "" {
		color = c.story.Style.Theme.Story.TextColor
	}
	return Form{Text: p.Text, Title: p.Title, TitleColor: color}, nil
}

// CancelPending returns to idle without changing any page.
func (c *Collection) CancelPending() {
	c.mu.Lock()
	c.mode = Idle()
	c.mu.Unlock()
}

// CommitForm applies the form according to the current mode.
//
// Editing overwrites the edited page's text, title and title color; its
// image is replaced only when an image is supplied, and the text must not be
// empty. Otherwise one page is created per image, in order, spliced after
// the insertion anchor or appended. Text and title are only used when
// exactly one image is supplied. On success the mode returns to idle; on a
// validation error nothing changes.
func (c *Collection) CommitForm(f Form) (CommitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := sanitizeText(f.Text)
	title := sanitizeText(f.Title)
	titleColor := strings.TrimSpace(f.TitleColor)
	if titleColor == "" {
		titleColor = c.story.Style.Theme.Story.TextColor
	}

	if c.mode.kind == ModeEditing {
		idx := c.indexOf(c.mode.pageID)
		if idx < 0 {
			c.mode = Idle()
			return CommitResult{}, ErrPageNotFound
		}
		if strings.TrimSpace(text) == "" {
			return CommitResult{}, ErrTextRequired
		}
		p := c.pages[idx]
		p.Text = text
		p.Title = title
		p.TitleColor = titleColor
		if len(f.Images) > 0 {
			p.Image = f.Images[0]
		}
		p.Touch()
		c.mode = Idle()
		return CommitResult{Mode: ModeEditing.String(), Indices: []int{idx}}, nil
	}

	if len(f.Images) == 0 {
		return CommitResult{}, ErrImageRequired
	}
	if len(c.pages)+len(f.Images) > model.MaxPages {
		return CommitResult{}, fmt.Errorf("%w: cannot add %d pages to %d, limit is %d",
			ErrTooManyPages, len(f.Images), len(c.pages), model.MaxPages)
	}

	single := len(f.Images) == 1
	created := make([]*model.Page, 0, len(f.Images))
	for _, img := range f.Images {
		p := c.newPage(img)
		p.TitleColor = titleColor
		if single {
			if strings.TrimSpace(text) != "" {
				p.Text = text
			}
			p.Title = title
		}
		created = append(created, p)
	}

	at := len(c.pages)
	kind := ModeIdle
	if c.mode.kind == ModeInserting {
		kind = ModeInserting
		// An anchor deleted while the form was open falls back to appending.
		if anchor := c.indexOf(c.mode.pageID); anchor >= 0 {
			at = anchor + 1
		}
	}
	c.pages = insertAt(c.pages, at, created...)
	c.mode = Idle()

	indices := make([]int, len(created))
	for i := range created {
		indices[i] = at + i
	}
	c.logger.Info("pages added", "count", len(created), "at", at)
	return CommitResult{Mode: kind.String(), Indices: indices}, nil
}

func insertAt(pages []*model.Page, at int, add ...*model.Page) []*model.Page {
	out := make([]*model.Page, 0, len(pages)+len(add))
	out = append(out, pages[:at]...)
	out = append(out, add...)
	return append(out, pages[at:]...)
}
