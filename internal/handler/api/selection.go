// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/storybook-go/internal/i18n"
	"github.com/olegiv/storybook-go/internal/middleware"
	"github.com/olegiv/storybook-go/internal/story"
)

// SelectionResponse is the selection in both index and text form.
type SelectionResponse struct {
	Indices []int  `json:"indices"`
	Text    string `json:"text"`
}

// SelectionRequest is the body of PUT /api/selection.
type SelectionRequest struct {
	Text string `json:"text"`
}

// StickerRequest is the body of POST /api/selection/sticker.
type StickerRequest struct {
	Src        string `json:"src"`
	ApplyToAll bool   `json:"applyToAll"`
}

// CopyBoxRequest is the optional body of POST /api/selection/copy-box.
// Without targets the selection decides source and targets.
type CopyBoxRequest struct {
	Source  int   `json:"source"`
	Targets []int `json:"targets"`
}

// CopyBoxResult reports a box copy.
type CopyBoxResult struct {
	Source int `json:"source"`
	Copied int `json:"copied"`
}

// CountResult reports how many pages an operation touched.
type CountResult struct {
	Count int `json:"count"`
}

// ExtractResult is the outcome of a batch extraction.
type ExtractResult struct {
	*story.ExtractReport
	Message string `json:"message"`
}

func (h *Handler) selection() SelectionResponse {
	sel := h.story.Selection()
	return SelectionResponse{Indices: sel, Text: story.FormatSelection(sel)}
}

// GetSelection handles GET /api/selection
func (h *Handler) GetSelection(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.selection())
}

// SetSelection handles PUT /api/selection
// Bad tokens in the text are dropped; the response carries the canonical text.
func (h *Handler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.story.SetSelectionText(req.Text)
	WriteSuccess(w, h.selection())
}

// ClearSelection handles DELETE /api/selection
func (h *Handler) ClearSelection(w http.ResponseWriter, _ *http.Request) {
	h.story.ClearSelection()
	WriteSuccess(w, h.selection())
}

// SelectAll handles POST /api/selection/all
func (h *Handler) SelectAll(w http.ResponseWriter, _ *http.Request) {
	h.story.SelectAll()
	WriteSuccess(w, h.selection())
}

// ToggleSelected handles POST /api/selection/toggle/{index}
func (h *Handler) ToggleSelected(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err == nil {
		err = h.story.ToggleSelected(idx)
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	WriteSuccess(w, h.selection())
}

// AddBox handles POST /api/selection/box
func (h *Handler) AddBox(w http.ResponseWriter, r *http.Request) {
	n, err := h.story.AddBoxToSelection()
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, CountResult{Count: n})
}

// AddSticker handles POST /api/selection/sticker
func (h *Handler) AddSticker(w http.ResponseWriter, r *http.Request) {
	var req StickerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	n, err := h.story.AddStickerToSelection(req.Src, req.ApplyToAll)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, CountResult{Count: n})
}

// CopyBox handles POST /api/selection/copy-box
func (h *Handler) CopyBox(w http.ResponseWriter, r *http.Request) {
	var req CopyBoxRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}

	var res CopyBoxResult
	var err error
	if len(req.Targets) > 0 {
		res.Source = req.Source
		res.Copied, err = h.story.CopyBoxStyleFrom(req.Source, req.Targets)
	} else {
		res.Source, res.Copied, err = h.story.CopyBoxStyle()
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, res)
}

// ExtractSelection handles POST /api/selection/extract
// Per-page failures are reported in the result and recorded on the pages;
// they do not fail the request.
func (h *Handler) ExtractSelection(w http.ResponseWriter, r *http.Request) {
	if h.extractor == nil {
		h.fail(w, r, nil, problemExtractorDisabled)
		return
	}
	report, err := h.story.ExtractText(r.Context(), h.extractor, h.extractConcurrency)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	msg := i18n.T(middleware.GetLanguage(r), "msg.extraction_done", report.Succeeded, report.Succeeded+report.Failed)
	h.writeState(w, ExtractResult{ExtractReport: report, Message: msg})
}
