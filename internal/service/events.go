// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides read access to the operational event log.
package service

import (
	"context"
	"fmt"

	"github.com/olegiv/storybook-go/internal/model"
	"github.com/olegiv/storybook-go/internal/store"
)

// Paging bounds for event listings.
const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// EventPage is one page of the event log, newest first.
type EventPage struct {
	Events  []model.Event `json:"events"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"perPage"`
}

// TotalPages returns the number of pages at the current page size.
func (p EventPage) TotalPages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// EventService lists event log entries.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db store.DBTX) *EventService {
	return &EventService{queries: store.New(db)}
}

// List returns the 1-based page of events. Out-of-range arguments are
// clamped.
func (s *EventService) List(ctx context.Context, page, perPage int) (EventPage, error) {
	if page < 1 {
		page = 1
	}
	switch {
	case perPage <= 0:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}

	total, err := s.queries.CountEvents(ctx)
	if err != nil {
		return EventPage{}, fmt.Errorf("counting events: %w", err)
	}
	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		return EventPage{}, fmt.Errorf("listing events: %w", err)
	}

	events := make([]model.Event, len(rows))
	for i, row := range rows {
		events[i] = model.Event{
			ID:        row.ID,
			Level:     row.Level,
			Category:  row.Category,
			Message:   row.Message,
			Metadata:  row.Metadata,
			CreatedAt: row.CreatedAt,
		}
	}
	return EventPage{Events: events, Total: total, Page: page, PerPage: perPage}, nil
}
