// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/storybook-go/internal/geometry"
	"github.com/olegiv/storybook-go/internal/story"
)

// GestureResponse identifies a started gesture.
type GestureResponse struct {
	ID string `json:"id"`
}

// MoveRequest is the body of POST /api/gestures/{id}/move.
type MoveRequest struct {
	Pointer geometry.Point `json:"pointer"`
}

// EndRequest is the body of POST /api/gestures/{id}/end. The container is
// measured again at release because the page may have been resized.
type EndRequest struct {
	Container geometry.Rect `json:"containerRect"`
}

// BeginGesture handles POST /api/gestures
func (h *Handler) BeginGesture(w http.ResponseWriter, r *http.Request) {
	var req story.GestureStart
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	id, err := h.story.BeginGesture(req)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	WriteCreated(w, GestureResponse{ID: id})
}

// MoveGesture handles POST /api/gestures/{id}/move
// Returns the live pixel rect; nothing is persisted.
func (h *Handler) MoveGesture(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	rect, err := h.story.MoveGesture(chi.URLParam(r, "id"), req.Pointer)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	WriteSuccess(w, rect)
}

// EndGesture handles POST /api/gestures/{id}/end
// Commits the overlay geometry in percent of the container.
func (h *Handler) EndGesture(w http.ResponseWriter, r *http.Request) {
	var req EndRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	g, err := h.story.EndGesture(chi.URLParam(r, "id"), req.Container)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, g)
}

// CancelGesture handles DELETE /api/gestures/{id}
func (h *Handler) CancelGesture(w http.ResponseWriter, r *http.Request) {
	if !h.story.CancelGesture(chi.URLParam(r, "id")) {
		h.fail(w, r, geometry.ErrUnknownGesture, problemInternal)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
