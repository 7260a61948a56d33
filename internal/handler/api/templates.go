// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/storybook-go/internal/model"
)

// SaveTemplateRequest is the body of POST /api/templates. Without a style
// the story's current style is saved.
type SaveTemplateRequest struct {
	Name  string       `json:"name"`
	Style *model.Style `json:"style,omitempty"`
}

// ListTemplates handles GET /api/templates
// Built-in templates come first and have negative ids.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.templates.List(r.Context())
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	WriteSuccess(w, list)
}

// SaveTemplate handles POST /api/templates
func (h *Handler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req SaveTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	style := h.story.Style()
	if req.Style != nil {
		style = *req.Style
	}
	tmpl, err := h.templates.Save(r.Context(), req.Name, style)
	if err != nil {
		h.fail(w, r, err, problemTemplateSave)
		return
	}
	h.logger.Info("template saved", "category", model.EventCategoryTemplate, "id", tmpl.ID)
	WriteCreated(w, tmpl)
}

// DeleteTemplate handles DELETE /api/templates/{id}
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err == nil {
		err = h.templates.Delete(r.Context(), id)
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyTemplate handles POST /api/templates/{id}/apply
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	tmpl, err := h.templates.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	if err := h.story.ApplyTemplate(tmpl); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, tmpl)
}
