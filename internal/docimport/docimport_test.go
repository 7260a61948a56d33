// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docimport

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func TestParseInfo(t *testing.T) {
	out := []byte("Title:          My Story: Part 1\nAuthor:         Someone\nPages:          12\nEncrypted:      no\n")
	info := parseInfo(out)
	if info.pages != 12 {
		t.Errorf("pages = %d, want 12", info.pages)
	}
	if info.title != "My Story: Part 1" {
		t.Errorf("title = %q", info.title)
	}

	if got := parseInfo([]byte("garbage")); got.pages != 0 || got.title != "" {
		t.Errorf("parseInfo(garbage) = %+v", got)
	}
}

func TestPageNumber(t *testing.T) {
	tests := map[string]int{
		"/tmp/x/page-1.jpg":   1,
		"/tmp/x/page-010.jpg": 10,
		"/tmp/x/page.jpg":     0,
	}
	for path, want := range tests {
		if got := pageNumber(path); got != want {
			t.Errorf("pageNumber(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"story.pdf", "story"},
		{"My Book.PDF", "My Book"},
		{`C:\fakepath\قصتي.pdf`, "قصتي"},
		{"notes.txt", "notes.txt"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleFromFilename(tt.in); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImport_RejectsNonPDF(t *testing.T) {
	p := NewPoppler("pdfinfo", "pdftoppm", nil)
	_, err := p.Import(context.Background(), strings.NewReader("hello"), "x.pdf")
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("err = %v, want ErrNotPDF", err)
	}
}

// fakeTools writes shell scripts standing in for pdfinfo and pdftoppm.
// pdftoppm copies the JPEGs in samples to unpadded page files.
func fakeTools(t *testing.T, info string, pages int) (pdfinfo, pdftoppm string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	samples := filepath.Join(dir, "samples")
	if err := os.Mkdir(samples, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= pages; i++ {
		path := filepath.Join(samples, fmt.Sprintf("%d.jpg", i))
		if err := imaging.Save(imaging.New(10+i, 20, color.White), path); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("STORYBOOK_TEST_SAMPLES", samples)

	pdfinfo = filepath.Join(dir, "pdfinfo")
	writeScript(t, pdfinfo, "printf '%s'", info)
	pdftoppm = filepath.Join(dir, "pdftoppm")
	writeScript(t, pdftoppm, `for last; do :; done
i=1
for f in $(ls "$STORYBOOK_TEST_SAMPLES" | sort -n); do
  cp "$STORYBOOK_TEST_SAMPLES/$f" "$last-$i.jpg"
  i=$((i+1))
done`)
	return pdfinfo, pdftoppm
}

func writeScript(t *testing.T, path, body string, args ...any) {
	t.Helper()
	if len(args) > 0 {
		body = fmt.Sprintf(body, args...)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestImport_WithFakeTools(t *testing.T) {
	pdfinfo, pdftoppm := fakeTools(t, `Pages: 11\nTitle:  \n`, 11)
	p := NewPoppler(pdfinfo, pdftoppm, nil)

	doc, err := p.Import(context.Background(), strings.NewReader("%PDF-1.7 fake"), "bedtime.pdf")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if doc.Title != "bedtime" {
		t.Errorf("Title = %q, want filename fallback", doc.Title)
	}
	if doc.PageCount != 11 || len(doc.Pages) != 11 {
		t.Fatalf("pages = %d/%d, want 11", doc.PageCount, len(doc.Pages))
	}
	for i, page := range doc.Pages {
		if page.Width != 11+i {
			t.Errorf("page %d width = %d, want %d (pages out of order)", i, page.Width, 11+i)
		}
		if page.MimeType != "image/jpeg" {
			t.Errorf("page %d MimeType = %q", i, page.MimeType)
		}
	}
}

func TestImport_MetadataTitle(t *testing.T) {
	pdfinfo, pdftoppm := fakeTools(t, `Title: The Brave Fox\nPages: 2\n`, 2)
	doc, err := NewPoppler(pdfinfo, pdftoppm, nil).Import(context.Background(), strings.NewReader("%PDF-1.4"), "x.pdf")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if doc.Title != "The Brave Fox" {
		t.Errorf("Title = %q", doc.Title)
	}
}

func TestImport_EmptyDocument(t *testing.T) {
	pdfinfo, pdftoppm := fakeTools(t, `Pages: 0\n`, 0)
	_, err := NewPoppler(pdfinfo, pdftoppm, nil).Import(context.Background(), strings.NewReader("%PDF-1.4"), "x.pdf")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestImport_ToolFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	pdfinfo := filepath.Join(dir, "pdfinfo")
	writeScript(t, pdfinfo, "echo 'Syntax Error: broken xref' >&2; exit 1")

	_, err := NewPoppler(pdfinfo, "pdftoppm", nil).Import(context.Background(), strings.NewReader("%PDF-1.4"), "x.pdf")
	if err == nil || !strings.Contains(err.Error(), "broken xref") {
		t.Errorf("err = %v, want tool stderr", err)
	}
}

// recordingRunner answers pdfinfo with info and records every call.
type recordingRunner struct {
	info  string
	calls [][]string
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if name == "pdfinfo" {
		return []byte(r.info), nil
	}
	return nil, nil
}

func TestImport_PageLimit(t *testing.T) {
	tests := []struct {
		name       string
		info       string
		wantErr    error
		wantRender bool
	}{
		{"far over the limit", "Pages: 5000\n", ErrTooManyPages, false},
		{"one over the limit", fmt.Sprintf("Pages: %d\n", MaxDocumentPages+1), ErrTooManyPages, false},
		{"at the limit", fmt.Sprintf("Pages: %d\n", MaxDocumentPages), ErrEmptyDocument, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{info: tt.info}
			p := NewPoppler("pdfinfo", "pdftoppm", nil)
			p.run = runner.run

			_, err := p.Import(context.Background(), strings.NewReader("%PDF-1.7"), "big.pdf")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			rendered := len(runner.calls) > 1
			if rendered != tt.wantRender {
				t.Fatalf("pdftoppm called = %v, want %v (calls %v)", rendered, tt.wantRender, runner.calls)
			}
			if !rendered {
				return
			}
			args := strings.Join(runner.calls[1], " ")
			if want := fmt.Sprintf("-l %d ", MaxDocumentPages); !strings.Contains(args, want) {
				t.Errorf("pdftoppm args = %q, want %q", args, want)
			}
		})
	}
}
