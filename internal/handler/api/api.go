// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API of the storybook editor.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/storybook-go/internal/docimport"
	"github.com/olegiv/storybook-go/internal/export"
	"github.com/olegiv/storybook-go/internal/extract"
	imgproc "github.com/olegiv/storybook-go/internal/imaging"
	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/render"
	"github.com/olegiv/storybook-go/internal/service"
	"github.com/olegiv/storybook-go/internal/story"
	"github.com/olegiv/storybook-go/internal/version"
)

// Request body limits.
const (
	maxJSONBody   = 8 << 20
	maxUploadBody = 512 << 20
	maxMemory     = 32 << 20
)

// TemplateStore saves named styles. *store.TemplateStore implements it.
type TemplateStore interface {
	Save(ctx context.Context, name string, style model.Style) (model.Template, error)
	List(ctx context.Context) ([]model.Template, error)
	Get(ctx context.Context, id int64) (model.Template, error)
	Delete(ctx context.Context, id int64) error
}

// EventLister pages through the event log. *service.EventService
// implements it.
type EventLister interface {
	List(ctx context.Context, page, perPage int) (service.EventPage, error)
}

// Deps are the collaborators of the API.
type Deps struct {
	Story     *story.Collection
	Images    *imgproc.Processor
	Raster    *render.Rasterizer
	Previewer *render.Previewer
	Exporter  *export.Pipeline
	Importer  docimport.Importer
	Extractor extract.Extractor // nil disables extraction
	Templates TemplateStore
	Events    EventLister // nil hides the event log
	Logger    *slog.Logger
	Version   version.Info

	ExtractConcurrency int
	CacheBackend       string
}

// Handler serves the editor API.
type Handler struct {
	story     *story.Collection
	images    *imgproc.Processor
	raster    *render.Rasterizer
	previewer *render.Previewer
	exporter  *export.Pipeline
	importer  docimport.Importer
	extractor extract.Extractor
	templates TemplateStore
	events    EventLister
	logger    *slog.Logger
	version   version.Info

	extractConcurrency int
	cacheBackend       string
}

// NewHandler creates the API handler.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Images == nil {
		d.Images = imgproc.NewProcessor()
	}
	if d.ExtractConcurrency < 1 {
		d.ExtractConcurrency = 1
	}
	return &Handler{
		story:              d.Story,
		images:             d.Images,
		raster:             d.Raster,
		previewer:          d.Previewer,
		exporter:           d.Exporter,
		importer:           d.Importer,
		extractor:          d.Extractor,
		templates:          d.Templates,
		events:             d.Events,
		version:            d.Version,
		logger:             d.Logger,
		extractConcurrency: d.ExtractConcurrency,
		cacheBackend:       d.CacheBackend,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Mutation is returned by editing endpoints: the operation's own result, if
// any, and the story state after it.
type Mutation struct {
	Result any            `json:"result,omitempty"`
	State  story.Snapshot `json:"state"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeState answers a mutation with the resulting story state.
func (h *Handler) writeState(w http.ResponseWriter, result any) {
	WriteSuccess(w, Mutation{Result: result, State: h.story.Snapshot()})
}

var errBadRequest = errors.New("bad request")

// decodeJSON decodes a size-limited JSON request body. An empty body leaves
// v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

// indexParam parses a 0-based page index URL parameter.
func indexParam(r *http.Request, name string) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.Join(errBadRequest, err)
	}
	return idx, nil
}

// idParam parses an int64 URL parameter. Template ids may be negative.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errors.Join(errBadRequest, err)
	}
	return id, nil
}
