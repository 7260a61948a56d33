// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package export turns a rendered book into a downloadable PDF or DOCX.
//
// Pages are rasterized one at a time and handed to a format assembler. Any
// failure aborts the whole export; a partial document is never returned.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/util"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Scale is the rasterization factor of exported pages.
const Scale = 2

// Background fills page areas left transparent.
var Background = color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf4, A: 0xff}

var (
	ErrNoPages           = errors.New("nothing to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrTitleNotSet       = errors.New("story title is not set")
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPDF, FormatDOCX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension of f.
func (f Format) Extension() string { return string(f) }

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatDOCX {
		return model.MimeTypeDOCX
	}
	return model.MimeTypePDF
}

// Document is a finished export.
type Document struct {
	Filename      string
	ASCIIFilename string
	ContentType   string
	Data          []byte
}

// ContentDisposition returns the attachment header value for d.
func (d *Document) ContentDisposition() string {
	return util.ContentDisposition(d.Filename)
}

// assembler builds a document from page bitmaps in order.
type assembler interface {
	AddPage(img image.Image) error
	Bytes() ([]byte, error)
}

// Pipeline runs exports.
type Pipeline struct {
	defaultName string
	logger      *slog.Logger
}

// NewPipeline creates a pipeline. defaultName names the file when the story
// has no title.
func NewPipeline(defaultName string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{defaultName: defaultName, logger: logger}
}

// Export rasterizes every page of surface and assembles them into format.
// The surface is in export mode for the duration of the call and always
// leaves it, whatever the outcome.
func (p *Pipeline) Export(ctx context.Context, surface Surface, format Format, title string) (*Document, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleNotSet
	}

	surface.EnterExportMode()
	defer surface.ExitExportMode()

	pages := surface.PageSurfaces()
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	start := time.Now()
	asm, err := newAssembler(format)
	if err != nil {
		return nil, err
	}
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export cancelled at page %d: %w", i+1, err)
		}
		img, err := page.Rasterize(ctx, Scale, Background)
		if err != nil {
			return nil, fmt.Errorf("rasterizing page %d: %w", i+1, err)
		}
		if err := asm.AddPage(img); err != nil {
			return nil, fmt.Errorf("adding page %d: %w", i+1, err)
		}
	}

	data, err := asm.Bytes()
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", format, err)
	}

	filename := util.DownloadFilename(title, p.defaultName, format.Extension())
	p.logger.Info("story exported",
		"category", model.EventCategoryExport,
		"format", format,
		"pages", len(pages),
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return &Document{
		Filename:      filename,
		ASCIIFilename: util.ASCIIFilename(filename),
		ContentType:   format.ContentType(),
		Data:          data,
	}, nil
}

func newAssembler(format Format) (assembler, error) {
	switch format {
	case FormatPDF:
		return newPDFAssembler(), nil
	case FormatDOCX:
		return newDOCXAssembler(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
