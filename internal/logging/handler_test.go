// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/store"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

// recorder captures events in memory.
type recorder struct {
	mu     sync.Mutex
	events []store.CreateEventParams
	err    error
}

func (r *recorder) CreateEvent(_ context.Context, arg store.CreateEventParams) (store.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, arg)
	return store.Event{Level: arg.Level}, r.err
}

func (r *recorder) last(t *testing.T) store.CreateEventParams {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		t.Fatal("no events recorded")
	}
	return r.events[len(r.events)-1]
}

func newTestLogger(level slog.Level) (*slog.Logger, *recorder) {
	rec := &recorder{}
	return slog.New(NewEventLogHandlerWithWriter(discardHandler{}, rec, level)), rec
}

func TestEventLogHandler_LevelThreshold(t *testing.T) {
	tests := []struct {
		name    string
		log     func(*slog.Logger)
		want    bool
		wantLvl string
	}{
		{"error", func(l *slog.Logger) { l.Error("boom") }, true, model.EventLevelError},
		{"warn", func(l *slog.Logger) { l.Warn("careful") }, true, model.EventLevelWarning},
		{"info", func(l *slog.Logger) { l.Info("fine") }, false, ""},
		{"debug", func(l *slog.Logger) { l.Debug("noise") }, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, rec := newTestLogger(slog.LevelWarn)
			tt.log(logger)
			if got := len(rec.events) > 0; got != tt.want {
				t.Fatalf("captured = %v, want %v", got, tt.want)
			}
			if tt.want && rec.last(t).Level != tt.wantLvl {
				t.Errorf("Level = %q, want %q", rec.last(t).Level, tt.wantLvl)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	logger, rec := newTestLogger(slog.LevelInfo)
	logger.Info("story replaced from import")
	if ev := rec.last(t); ev.Level != model.EventLevelInfo || ev.Category != model.EventCategoryImport {
		t.Errorf("event = %+v", ev)
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"export failed", model.EventCategoryExport},
		{"PDF assembly error", model.EventCategoryExport},
		{"import rejected", model.EventCategoryImport},
		{"text extraction failed", model.EventCategoryExtract},
		{"template could not be saved", model.EventCategoryTemplate},
		{"redis unavailable", model.EventCategoryCache},
		{"something odd", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			logger, rec := newTestLogger(slog.LevelWarn)
			logger.Warn(tt.msg)
			if got := rec.last(t).Category; got != tt.want {
				t.Errorf("Category = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventLogHandler_ExplicitCategoryAndMetadata(t *testing.T) {
	logger, rec := newTestLogger(slog.LevelWarn)
	logger.Warn("export failed", "category", model.EventCategoryGesture, "page", 3, "quote", `say "hi"`)

	ev := rec.last(t)
	if ev.Category != model.EventCategoryGesture {
		t.Errorf("Category = %q, want gesture", ev.Category)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, ev.Metadata)
	}
	if meta["page"] != "3" || meta["quote"] != `say "hi"` {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventLogHandler_WithAttrsAndGroup(t *testing.T) {
	logger, rec := newTestLogger(slog.LevelWarn)
	logger.With("category", model.EventCategoryExtract, "backend", "openai").
		WithGroup("req").
		Warn("quota", "id", "abc")

	ev := rec.last(t)
	if ev.Category != model.EventCategoryExtract {
		t.Errorf("Category = %q, want extract", ev.Category)
	}
	var meta map[string]string
	_ = json.Unmarshal([]byte(ev.Metadata), &meta)
	if meta["backend"] != "openai" || meta["req.id"] != "abc" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestEventLogHandler_EmptyMetadata(t *testing.T) {
	logger, rec := newTestLogger(slog.LevelWarn)
	logger.Error("no attrs")
	if got := rec.last(t).Metadata; got != "{}" {
		t.Errorf("Metadata = %q, want {}", got)
	}
}

func TestEventLogHandler_WriteErrorsAreSwallowed(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	h := NewEventLogHandlerWithWriter(discardHandler{}, rec, slog.LevelWarn)
	if err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "x", 0)); err != nil {
		t.Errorf("Handle returned %v", err)
	}
}

func TestEventLogHandler_SQLite(t *testing.T) {
	db, err := store.NewDB(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Error("export failed", "format", "pdf")
	logger.Info("not stored")

	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryExport || events[0].Level != model.EventLevelError {
		t.Errorf("event = %+v", events[0])
	}
}

func TestSlogLevelToEventLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, model.EventLevelInfo},
		{slog.LevelInfo, model.EventLevelInfo},
		{slog.LevelWarn, model.EventLevelWarning},
		{slog.LevelError, model.EventLevelError},
		{slog.LevelError + 4, model.EventLevelError},
	}
	for _, tt := range tests {
		if got := slogLevelToEventLevel(tt.level); got != tt.want {
			t.Errorf("slogLevelToEventLevel(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
