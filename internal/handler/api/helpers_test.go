// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image/color"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/storybook-go/internal/cache"
	"github.com/olegiv/storybook-go/internal/docimport"
	"github.com/olegiv/storybook-go/internal/export"
	"github.com/olegiv/storybook-go/internal/extract"
	"github.com/olegiv/storybook-go/internal/i18n"
	imgproc "github.com/olegiv/storybook-go/internal/imaging"
	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/render"
	"github.com/olegiv/storybook-go/internal/service"
	"github.com/olegiv/storybook-go/internal/store"
	"github.com/olegiv/storybook-go/internal/story"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeImporter returns a fixed document or error.
type fakeImporter struct {
	doc *docimport.Document
	err error
}

func (f *fakeImporter) Import(_ context.Context, r io.Reader, filename string) (*docimport.Document, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

// fakeExtractor fails for images listed in fail and returns text otherwise.
type fakeExtractor struct {
	mu   sync.Mutex
	text string
	fail map[int]bool // by image width
}

func (f *fakeExtractor) ExtractText(_ context.Context, img model.ImageRef) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[img.Width] {
		return "", extract.ErrNoText
	}
	return f.text, nil
}

type testEnv struct {
	db       *sql.DB
	story    *story.Collection
	importer *fakeImporter
	router   http.Handler
}

func newTestEnv(t *testing.T, ex extract.Extractor) *testEnv {
	t.Helper()
	require.NoError(t, i18n.Init(nil))

	db, err := store.NewDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mc.Close() })

	raster, err := render.NewRasterizer()
	require.NoError(t, err)

	logger := discardLogger()
	env := &testEnv{
		db:       db,
		story:    story.New(logger),
		importer: &fakeImporter{},
	}
	h := NewHandler(Deps{
		Story:              env.story,
		Raster:             raster,
		Previewer:          render.NewPreviewer(raster, mc, time.Minute, logger),
		Exporter:           export.NewPipeline("story", logger),
		Importer:           env.importer,
		Extractor:          ex,
		Templates:          store.NewTemplateStore(db),
		Events:             service.NewEventService(db),
		Logger:             logger,
		ExtractConcurrency: 2,
		CacheBackend:       cache.BackendMemory,
	})
	env.router = h.Routes(RouteConfig{Timeout: 10 * time.Second, LongTimeout: 30 * time.Second})
	return env
}

// pngBytes encodes a solid image. The width doubles as a tag in fakes.
func pngBytes(t *testing.T, width int) []byte {
	t.Helper()
	data, err := imgproc.Encode(imaging.New(width, 16, color.NRGBA{R: 200, A: 255}), "png", 0)
	require.NoError(t, err)
	return data
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

// multipartBody builds a form with text fields and files under field.
func multipartBody(t *testing.T, fields map[string]string, field string, files ...upload) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+f.name+`"`)
		hdr.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, fields, "images", files...)
	req := httptest.NewRequest(http.MethodPost, "/api/pages", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// addPages uploads n PNG pages with widths 10, 11, ...
func (e *testEnv) addPages(t *testing.T, n int) {
	t.Helper()
	files := make([]upload, n)
	for i := range files {
		files[i] = upload{name: "p.png", contentType: "image/png", data: pngBytes(t, 10+i)}
	}
	rec := e.upload(t, nil, files...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

// state decodes a Mutation response.
type mutationJSON struct {
	Result json.RawMessage `json:"result"`
	State  story.Snapshot  `json:"state"`
}

func widths(pages []*model.Page) []int {
	out := make([]int, len(pages))
	for i, p := range pages {
		out[i] = p.Image.Width
	}
	return out
}
