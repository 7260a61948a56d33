// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/overlay"
)

// ExtractionErrorPrefix starts the message stored on a page whose
// extraction failed.
const ExtractionErrorPrefix = "Error: "

// TextExtractor reads the text printed on a page image.
type TextExtractor interface {
	ExtractText(ctx context.Context, img model.ImageRef) (string, error)
}

// ExtractOutcome is the result for one page.
type ExtractOutcome struct {
	PageID string `json:"pageId"`
	Index  int    `json:"index"` // -1 when the page was deleted meanwhile
	OK     bool   `json:"ok"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ExtractReport summarises a batch extraction.
type ExtractReport struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Outcomes  []ExtractOutcome `json:"outcomes"`
}

type extractJob struct {
	pageID string
	image  model.ImageRef
}

// ExtractText runs ex over every selected page, at most concurrency at a
// time. The collection is not locked while extraction runs.
//
// Each page succeeds or fails on its own. A success writes the text into
// the page's text box, creating the default box when needed, and clears the
// page's extraction error; a failure records "Error: <message>" on the page
// instead. Results are applied by page id, so pages reordered meanwhile
// still receive their own text and deleted pages are skipped. Only an empty
// selection is an error.
func (c *Collection) ExtractText(ctx context.Context, ex TextExtractor, concurrency int) (*ExtractReport, error) {
	c.mu.Lock()
	sel := c.selectionLocked()
	jobs := make([]extractJob, len(sel))
	for i, idx := range sel {
		jobs[i] = extractJob{pageID: c.pages[idx].ID, image: c.pages[idx].Image}
	}
	c.mu.Unlock()

	if len(jobs) == 0 {
		return nil, ErrNoSelection
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	outcomes := make([]ExtractOutcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			text, err := ex.ExtractText(ctx, job.image)
			if err == nil && ctx.Err() != nil {
				err = ctx.Err()
			}
			if err != nil {
				c.logger.Warn("text extraction failed", "category", model.EventCategoryExtract,
					"page_id", job.pageID, "error", err)
				outcomes[i] = ExtractOutcome{PageID: job.pageID, Error: extractionMessage(err)}
				return nil
			}
			outcomes[i] = ExtractOutcome{PageID: job.pageID, OK: true, Text: text}
			return nil
		})
	}
	_ = g.Wait()

	report := &ExtractReport{Outcomes: outcomes}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range outcomes {
		o := &outcomes[i]
		o.Index = c.indexOf(o.PageID)
		if o.OK {
			report.Succeeded++
		} else {
			report.Failed++
		}
		if o.Index < 0 {
			continue
		}
		p := c.pages[o.Index]
		if o.OK {
			overlay.SetBoxText(p, o.Text)
			p.ExtractionError = ""
		} else {
			p.ExtractionError = o.Error
			p.Touch()
		}
	}
	c.logger.Info("text extraction finished", "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

func extractionMessage(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExtractionErrorPrefix + "extraction cancelled"
	}
	return ExtractionErrorPrefix + err.Error()
}
