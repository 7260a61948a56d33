// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "time"

// Template is a row of the templates table. Style holds the JSON-encoded
// model.Style.
type Template struct {
	ID        int64
	Name      string
	Style     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event is a row of the events table.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
