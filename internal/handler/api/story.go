// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/storybook-go/internal/model"
)

// TitleRequest is the body of PUT /api/story/title.
type TitleRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// EndPageRequest is the body of PUT /api/story/end-page.
type EndPageRequest struct {
	Enabled  bool   `json:"enabled"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// GetStory handles GET /api/story
func (h *Handler) GetStory(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.story.Snapshot())
}

// SetTitle handles PUT /api/story/title
func (h *Handler) SetTitle(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.story.SetTitle(req.Title, req.Subtitle)
	h.writeState(w, nil)
}

// SetEndPage handles PUT /api/story/end-page
func (h *Handler) SetEndPage(w http.ResponseWriter, r *http.Request) {
	var req EndPageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.story.SetEndPage(req.Enabled, req.Title, req.Subtitle)
	h.writeState(w, nil)
}

// SetStyle handles PUT /api/story/style
func (h *Handler) SetStyle(w http.ResponseWriter, r *http.Request) {
	style := h.story.Style()
	if err := decodeJSON(w, r, &style); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	if err := h.story.SetStyle(style); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, nil)
}

// ResetStory handles POST /api/story/reset
func (h *Handler) ResetStory(w http.ResponseWriter, _ *http.Request) {
	h.story.Reset()
	h.logger.Info("story reset")
	h.writeState(w, nil)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	type HealthResponse struct {
		Status     string `json:"status"`
		Pages      int    `json:"pages"`
		MaxPages   int    `json:"maxPages"`
		Extraction bool   `json:"extraction"`
		Cache      string `json:"cache,omitempty"`
		Version    string `json:"version"`
	}
	WriteSuccess(w, HealthResponse{
		Status:     "ok",
		Pages:      h.story.Len(),
		MaxPages:   model.MaxPages,
		Extraction: h.extractor != nil,
		Cache:      h.cacheBackend,
		Version:    h.version.Version,
	})
}
