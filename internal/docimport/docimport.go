// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package docimport turns an uploaded PDF into page images.
package docimport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for DecodeConfig
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/util"
)

// RenderDPI renders pages at 2.5 times 72 dpi.
const RenderDPI = 180

// MaxDocumentSize bounds uploaded documents.
const MaxDocumentSize = 100 << 20

// MaxDocumentPages is the cover plus a full story.
const MaxDocumentPages = model.MaxPages + 1

var (
	ErrNotPDF         = errors.New("file is not a PDF document")
	ErrEmptyDocument  = errors.New("document has no pages")
	ErrDocumentTooBig = errors.New("document is too large")
	ErrTooManyPages   = errors.New("document has too many pages")
)

// Document is an imported PDF. Pages are in document order.
type Document struct {
	PageCount int
	Title     string
	Pages     []model.ImageRef
}

// Importer converts a document into page images.
type Importer interface {
	Import(ctx context.Context, r io.Reader, filename string) (*Document, error)
}

// commandRunner runs an executable and returns its standard output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Poppler imports PDFs with the pdfinfo and pdftoppm tools.
type Poppler struct {
	pdfinfo  string
	pdftoppm string
	run      commandRunner
	logger   *slog.Logger
}

// NewPoppler creates an importer running the given executables.
func NewPoppler(pdfinfoPath, pdftoppmPath string, logger *slog.Logger) *Poppler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poppler{pdfinfo: pdfinfoPath, pdftoppm: pdftoppmPath, run: runCommand, logger: logger}
}

// Import renders every page of the PDF in r to a JPEG. The title comes from
// the document metadata, or from filename without its extension.
func (p *Poppler) Import(ctx context.Context, r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, ErrDocumentTooBig
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	dir, err := os.MkdirTemp("", "storybook-import-*")
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	src := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}

	info, err := p.info(ctx, src)
	if err != nil {
		return nil, err
	}
	if info.pages == 0 {
		return nil, ErrEmptyDocument
	}
	if info.pages > MaxDocumentPages {
		return nil, fmt.Errorf("%w: %d pages, limit is %d", ErrTooManyPages, info.pages, MaxDocumentPages)
	}

	pages, err := p.render(ctx, src, dir)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}

	title := info.title
	if title == "" {
		title = TitleFromFilename(filename)
	}
	p.logger.Info("document imported", "category", model.EventCategoryImport, "pages", len(pages))
	return &Document{PageCount: len(pages), Title: title, Pages: pages}, nil
}

type pdfInfo struct {
	pages int
	title string
}

func (p *Poppler) info(ctx context.Context, src string) (pdfInfo, error) {
	out, err := p.run(ctx, p.pdfinfo, "-enc", "UTF-8", src)
	if err != nil {
		return pdfInfo{}, err
	}
	return parseInfo(out), nil
}

// parseInfo reads the "Key: value" lines pdfinfo prints.
func parseInfo(out []byte) pdfInfo {
	var info pdfInfo
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Pages":
			info.pages, _ = strconv.Atoi(value)
		case "Title":
			info.title = value
		}
	}
	return info
}

var pageFileRe = regexp.MustCompile(`-(\d+)\.jpg$`)

func (p *Poppler) render(ctx context.Context, src, dir string) ([]model.ImageRef, error) {
	prefix := filepath.Join(dir, "page")
	// -l caps the rendered range in case pdfinfo undercounted.
	args := []string{"-jpeg", "-jpegopt", "quality=95", "-r", strconv.Itoa(RenderDPI),
		"-l", strconv.Itoa(MaxDocumentPages), src, prefix}
	if _, err := p.run(ctx, p.pdftoppm, args...); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(matches[i]) < pageNumber(matches[j])
	})

	pages := make([]model.ImageRef, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading rendered page: %w", err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("rendered page %s: %w", filepath.Base(path), err)
		}
		pages = append(pages, model.ImageRef{
			MimeType: model.MimeTypeJPEG,
			Data:     data,
			Width:    cfg.Width,
			Height:   cfg.Height,
		})
	}
	return pages, nil
}

// pageNumber extracts N from pdftoppm's "<prefix>-N.jpg", whose zero
// padding depends on the page count.
func pageNumber(path string) int {
	m := pageFileRe.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%s: %s", filepath.Base(name), msg)
	}
	return out, nil
}

// TitleFromFilename strips directories and a .pdf extension from an
// uploaded file name.
func TitleFromFilename(filename string) string {
	base, err := util.SanitizeFilename(filename)
	if err != nil {
		return ""
	}
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSpace(base)
}
