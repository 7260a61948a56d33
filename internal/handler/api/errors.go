// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/olegiv/storybook-go/internal/docimport"
	"github.com/olegiv/storybook-go/internal/export"
	"github.com/olegiv/storybook-go/internal/geometry"
	"github.com/olegiv/storybook-go/internal/i18n"
	imgproc "github.com/olegiv/storybook-go/internal/imaging"
	"github.com/olegiv/storybook-go/internal/middleware"
	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/overlay"
	"github.com/olegiv/storybook-go/internal/store"
	"github.com/olegiv/storybook-go/internal/story"
)

// problem is an HTTP status and an error code. The code doubles as the
// message key "error.<code>".
type problem struct {
	status int
	code   string
	args   []any
}

var (
	problemInternal          = problem{status: http.StatusInternalServerError, code: "internal"}
	problemExportFailed      = problem{status: http.StatusInternalServerError, code: "export_failed"}
	problemImportFailed      = problem{status: http.StatusBadGateway, code: "import_failed"}
	problemTemplateSave      = problem{status: http.StatusInternalServerError, code: "template_save_failed"}
	problemExtractorDisabled = problem{status: http.StatusServiceUnavailable, code: "extractor_disabled"}
	problemNotFound          = problem{status: http.StatusNotFound, code: "not_found"}
)

// problems maps sentinel errors to responses, checked in order.
var problems = []struct {
	err error
	p   problem
}{
	{errBadRequest, problem{http.StatusBadRequest, "bad_request", nil}},

	{story.ErrIndexOutOfRange, problem{http.StatusBadRequest, "index_out_of_range", nil}},
	{story.ErrPageNotFound, problem{http.StatusNotFound, "page_not_found", nil}},
	{story.ErrTextRequired, problem{http.StatusBadRequest, "text_required", nil}},
	{story.ErrImageRequired, problem{http.StatusBadRequest, "image_required", nil}},
	{story.ErrTooManyPages, problem{http.StatusBadRequest, "too_many_pages", []any{model.MaxPages}}},
	{story.ErrNoSelection, problem{http.StatusBadRequest, "no_selection", nil}},
	{story.ErrSelectionTooSmall, problem{http.StatusBadRequest, "selection_too_small", nil}},
	{story.ErrSourceHasNoBox, problem{http.StatusBadRequest, "source_has_no_box", nil}},
	{story.ErrNoTargets, problem{http.StatusBadRequest, "no_targets", nil}},
	{story.ErrTitleNotSet, problem{http.StatusBadRequest, "title_not_set", nil}},
	{story.ErrEmptyImport, problem{http.StatusBadRequest, "empty_import", nil}},

	{overlay.ErrNoBox, problem{http.StatusBadRequest, "no_box", nil}},
	{overlay.ErrStickerNotFound, problem{http.StatusNotFound, "sticker_not_found", nil}},
	{overlay.ErrInvalidGeometry, problem{http.StatusBadRequest, "invalid_geometry", nil}},
	{overlay.ErrInvalidRef, problem{http.StatusBadRequest, "bad_request", nil}},
	{overlay.ErrEmptySticker, problem{http.StatusBadRequest, "empty_sticker", nil}},
	{geometry.ErrUnknownGesture, problem{http.StatusNotFound, "unknown_gesture", nil}},

	{imgproc.ErrTooManyFiles, problem{http.StatusBadRequest, "too_many_files", []any{imgproc.MaxBatchFiles}}},
	{imgproc.ErrUnsupportedType, problem{http.StatusBadRequest, "unsupported_type", nil}},
	{imgproc.ErrUndecodableImage, problem{http.StatusBadRequest, "undecodable_image", nil}},
	{model.ErrInvalidStyle, problem{http.StatusBadRequest, "invalid_style", nil}},

	{export.ErrNoPages, problem{http.StatusBadRequest, "no_pages", nil}},
	{export.ErrUnsupportedFormat, problem{http.StatusBadRequest, "unsupported_format", nil}},
	{export.ErrTitleNotSet, problem{http.StatusBadRequest, "title_not_set", nil}},

	{docimport.ErrNotPDF, problem{http.StatusBadRequest, "not_pdf", nil}},
	{docimport.ErrDocumentTooBig, problem{http.StatusRequestEntityTooLarge, "document_too_big", nil}},
	{docimport.ErrEmptyDocument, problem{http.StatusBadRequest, "empty_import", nil}},
	{docimport.ErrTooManyPages, problem{http.StatusBadRequest, "too_many_pages", []any{model.MaxPages}}},

	{store.ErrTemplateNotFound, problem{http.StatusNotFound, "template_not_found", nil}},
	{store.ErrTemplateName, problem{http.StatusBadRequest, "template_name", nil}},
	{store.ErrBuiltinTemplate, problem{http.StatusBadRequest, "builtin_template", nil}},

	{context.DeadlineExceeded, problem{http.StatusServiceUnavailable, "timeout", nil}},
}

func classify(err error, fallback problem) problem {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return problem{status: http.StatusRequestEntityTooLarge, code: "bad_request"}
	}
	for _, e := range problems {
		if errors.Is(err, e.err) {
			return e.p
		}
	}
	return fallback
}

// fail writes the localized error response for err. Server-side failures are
// logged; validation errors are not.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback problem) {
	p := classify(err, fallback)
	if p.status >= http.StatusInternalServerError && p.status != http.StatusServiceUnavailable {
		h.logger.Error("request failed", "path", r.URL.Path, "code", p.code, "error", err)
	} else {
		h.logger.Debug("request rejected", "path", r.URL.Path, "code", p.code, "error", err)
	}
	msg := i18n.T(middleware.GetLanguage(r), "error."+p.code, p.args...)
	WriteError(w, p.status, p.code, msg)
}
