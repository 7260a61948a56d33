// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	imgproc "github.com/olegiv/storybook-go/internal/imaging"
	"github.com/olegiv/storybook-go/internal/render"
	"github.com/olegiv/storybook-go/internal/story"
)

// ReorderRequest is the body of POST /api/pages/reorder.
type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// imageFields are the multipart fields accepted for page images.
var imageFields = []string{"images", "images[]", "image"}

// CommitPages handles POST /api/pages
// Accepts multipart/form-data with text, title, titleColor and image file(s).
// The pages are added or the edited page is updated depending on the mode.
func (h *Handler) CommitPages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.fail(w, r, errors.Join(errBadRequest, err), problemInternal)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var files []*multipart.FileHeader
	for _, field := range imageFields {
		files = append(files, r.MultipartForm.File[field]...)
	}

	uploads, err := readUploads(files)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	images, err := h.images.IngestBatch(uploads)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}

	res, err := h.story.CommitForm(story.Form{
		Text:       r.FormValue("text"),
		Title:      r.FormValue("title"),
		TitleColor: r.FormValue("titleColor"),
		Images:     images,
	})
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	WriteCreated(w, Mutation{Result: res, State: h.story.Snapshot()})
}

func readUploads(files []*multipart.FileHeader) ([]imgproc.Upload, error) {
	if len(files) > imgproc.MaxBatchFiles {
		return nil, fmt.Errorf("%w: %d files, limit is %d", imgproc.ErrTooManyFiles, len(files), imgproc.MaxBatchFiles)
	}
	uploads := make([]imgproc.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, imgproc.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

// InsertAfter handles POST /api/pages/{index}/insert-after
func (h *Handler) InsertAfter(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err == nil {
		err = h.story.RequestInsertAfter(idx)
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, nil)
}

// EditPage handles POST /api/pages/{index}/edit
// Returns the pre-filled form.
func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	form, err := h.story.RequestEdit(idx)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, form)
}

// CancelPending handles POST /api/pending/cancel
func (h *Handler) CancelPending(w http.ResponseWriter, _ *http.Request) {
	h.story.CancelPending()
	h.writeState(w, nil)
}

// PatchPage handles PATCH /api/pages/{index}
func (h *Handler) PatchPage(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	var patch story.PagePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	page, err := h.story.UpdatePage(idx, patch)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, page)
}

// DeletePage handles DELETE /api/pages/{index}
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err == nil {
		err = h.story.DeletePage(idx)
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, nil)
}

// CutPage handles POST /api/pages/{index}/cut
// Cutting the page that is already cut clears the cut.
func (h *Handler) CutPage(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err == nil {
		err = h.story.RequestCut(idx)
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, nil)
}

// PastePage handles POST /api/pages/paste/{index}
func (h *Handler) PastePage(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err == nil {
		err = h.story.PasteAt(idx)
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, nil)
}

// ReorderPages handles POST /api/pages/reorder
func (h *Handler) ReorderPages(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	err := decodeJSON(w, r, &req)
	if err == nil {
		err = h.story.Reorder(req.From, req.To)
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, nil)
}

// DeleteSticker handles DELETE /api/pages/{index}/stickers/{stickerID}
func (h *Handler) DeleteSticker(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err == nil {
		err = h.story.DeleteSticker(idx, chi.URLParam(r, "stickerID"))
	}
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	h.writeState(w, nil)
}

// PreviewPage handles GET /api/pages/{index}/preview.png
// Optional query parameter scale (default 1).
func (h *Handler) PreviewPage(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	scale := 1.0
	if s := r.URL.Query().Get("scale"); s != "" {
		scale, err = strconv.ParseFloat(s, 64)
		if err != nil || scale <= 0 || scale > render.MaxScale {
			h.fail(w, r, errBadRequest, problemInternal)
			return
		}
	}

	data, err := h.previewer.Preview(r.Context(), h.story.Snapshot(), idx, scale)
	if err != nil {
		h.fail(w, r, err, problemInternal)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
