// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/storybook-go/internal/middleware"
)

// RouteConfig tunes the router.
type RouteConfig struct {
	// Timeout bounds ordinary requests.
	Timeout time.Duration
	// LongTimeout bounds extraction, export and import.
	LongTimeout time.Duration
	// Limiter, when set, rate limits extraction, export and import.
	Limiter *middleware.RateLimiter
}

// Routes builds the API router.
func (h *Handler) Routes(cfg RouteConfig) chi.Router {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.LongTimeout <= 0 {
		cfg.LongTimeout = 5 * time.Minute
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Language)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, r, nil, problemNotFound)
	})

	// Ordinary editing requests
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Timeout))

		r.Get("/health", h.Health)

		r.Route("/api/story", func(r chi.Router) {
			r.Get("/", h.GetStory)
			r.Put("/title", h.SetTitle)
			r.Put("/end-page", h.SetEndPage)
			r.Put("/style", h.SetStyle)
			r.Post("/reset", h.ResetStory)
		})

		r.Route("/api/pages", func(r chi.Router) {
			r.Post("/", h.CommitPages)
			r.Post("/reorder", h.ReorderPages)
			r.Post("/paste/{index}", h.PastePage)
			r.Route("/{index}", func(r chi.Router) {
				r.Patch("/", h.PatchPage)
				r.Delete("/", h.DeletePage)
				r.Post("/insert-after", h.InsertAfter)
				r.Post("/edit", h.EditPage)
				r.Post("/cut", h.CutPage)
				r.Delete("/stickers/{stickerID}", h.DeleteSticker)
				r.Get("/preview.png", h.PreviewPage)
			})
		})
		r.Post("/api/pending/cancel", h.CancelPending)

		// Flat so that the extract route below can share the prefix.
		r.Get("/api/selection", h.GetSelection)
		r.Put("/api/selection", h.SetSelection)
		r.Delete("/api/selection", h.ClearSelection)
		r.Post("/api/selection/all", h.SelectAll)
		r.Post("/api/selection/toggle/{index}", h.ToggleSelected)
		r.Post("/api/selection/box", h.AddBox)
		r.Post("/api/selection/sticker", h.AddSticker)
		r.Post("/api/selection/copy-box", h.CopyBox)

		r.Route("/api/gestures", func(r chi.Router) {
			r.Post("/", h.BeginGesture)
			r.Post("/{id}/move", h.MoveGesture)
			r.Post("/{id}/end", h.EndGesture)
			r.Delete("/{id}", h.CancelGesture)
		})

		r.Route("/api/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.SaveTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
			r.Post("/{id}/apply", h.ApplyTemplate)
		})

		r.Get("/api/events", h.ListEvents)
	})

	// Slow, collaborator-bound requests
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.LongTimeout))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware())
		}

		r.Post("/api/selection/extract", h.ExtractSelection)
		r.Get("/api/export/{format}", h.ExportStory)
		r.Post("/api/import/pdf", h.ImportPDF)
	})

	return r
}
