// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/storybook-go/internal/docimport"
	"github.com/olegiv/storybook-go/internal/export"
	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/render"
)

// ImportResult reports an import.
type ImportResult struct {
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

// ExportStory handles GET /api/export/{format}
// Responds with the document as an attachment. Any page failure aborts the
// export and no file is sent.
func (h *Handler) ExportStory(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}

	snap := h.story.Snapshot()
	title := ""
	if snap.Story.TitleSet {
		title = snap.Story.Title
	}
	doc, err := h.exporter.Export(r.Context(), render.NewBook(h.raster, snap), format, title)
	if err != nil {
		h.logger.Warn("export failed", "category", model.EventCategoryExport, "format", format, "error", err)
		h.fail(w, r, err, problemExportFailed)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", doc.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(doc.Data)
}

// ImportPDF handles POST /api/import/pdf
// Accepts multipart/form-data with a "file" field. The document's first page
// is treated as its cover and dropped; the rest replace the story pages.
func (h *Handler) ImportPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, docimport.MaxDocumentSize+(1<<20))
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.fail(w, r, errors.Join(errBadRequest, err), problemInternal)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, errors.Join(errBadRequest, err), problemInternal)
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.importer.Import(r.Context(), file, header.Filename)
	if err != nil {
		h.logger.Warn("import failed", "category", model.EventCategoryImport, "file", header.Filename, "error", err)
		h.fail(w, r, err, problemImportFailed)
		return
	}
	n, err := h.story.ReplaceWithImport(doc.Title, doc.Pages)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.logger.Info("story imported", "category", model.EventCategoryImport,
		"file", header.Filename, "pages", n)
	h.writeState(w, ImportResult{Title: doc.Title, Pages: n})
}
