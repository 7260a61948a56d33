// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/olegiv/storybook-go/internal/service"
)

// EventsResponse is one page of the event log.
type EventsResponse struct {
	service.EventPage
	TotalPages int `json:"totalPages"`
}

// ListEvents handles GET /api/events
// Optional query parameters: page (1-based), perPage.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		h.fail(w, r, nil, problemNotFound)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	perPage, err := queryInt(r, "perPage")
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}

	list, err := h.events.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	WriteSuccess(w, EventsResponse{EventPage: list, TotalPages: list.TotalPages()})
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Join(errBadRequest, err)
	}
	return n, nil
}
