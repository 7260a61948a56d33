// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryExport   = "export"
	EventCategoryImport   = "import"
	EventCategoryExtract  = "extract"
	EventCategoryTemplate = "template"
	EventCategoryGesture  = "gesture"
	EventCategoryCache    = "cache"
	EventCategorySystem   = "system"
)

// Event represents an operational event log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"` // JSON string
	CreatedAt time.Time `json:"createdAt"`
}
