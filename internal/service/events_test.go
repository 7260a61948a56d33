// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/store"
)

func seededService(t *testing.T, n int) *EventService {
	t.Helper()
	db, err := store.NewDB(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	q := store.New(db)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		_, err := q.CreateEvent(context.Background(), store.CreateEventParams{
			Level:     model.EventLevelWarning,
			Category:  model.EventCategoryExport,
			Message:   "event",
			Metadata:  "{}",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}
	return NewEventService(db)
}

func TestEventService_List(t *testing.T) {
	s := seededService(t, 5)

	tests := []struct {
		name      string
		page      int
		perPage   int
		wantLen   int
		wantPage  int
		wantPer   int
		wantPages int
	}{
		{"first page", 1, 2, 2, 1, 2, 3},
		{"last partial page", 3, 2, 1, 3, 2, 3},
		{"past the end", 9, 2, 0, 9, 2, 3},
		{"defaults", 0, 0, 5, 1, DefaultPerPage, 1},
		{"clamped size", 1, 10000, 5, 1, MaxPerPage, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(context.Background(), tt.page, tt.perPage)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got.Events) != tt.wantLen {
				t.Errorf("len(Events) = %d, want %d", len(got.Events), tt.wantLen)
			}
			if got.Page != tt.wantPage || got.PerPage != tt.wantPer {
				t.Errorf("page = %d/%d, want %d/%d", got.Page, got.PerPage, tt.wantPage, tt.wantPer)
			}
			if got.Total != 5 {
				t.Errorf("Total = %d, want 5", got.Total)
			}
			if got.TotalPages() != tt.wantPages {
				t.Errorf("TotalPages() = %d, want %d", got.TotalPages(), tt.wantPages)
			}
		})
	}
}

func TestEventService_NewestFirst(t *testing.T) {
	s := seededService(t, 3)
	got, err := s.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(got.Events); i++ {
		if got.Events[i].CreatedAt.After(got.Events[i-1].CreatedAt) {
			t.Fatalf("events not newest first: %v", got.Events)
		}
	}
}
