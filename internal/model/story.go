// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// DefaultEndPageTitle is the end page heading until the user changes it.
const DefaultEndPageTitle = "The End"

// MaxPages is the largest number of pages a story may hold.
const MaxPages = 500

// Story holds the story-level metadata that frames the pages.
type Story struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	TitleSet bool    `json:"titleSet"`
	EndPage  EndPage `json:"endPage"`
	Style    Style   `json:"style"`
}

// EndPage is the optional closing page.
type EndPage struct {
	Enabled  bool   `json:"enabled"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// NewStory returns an empty story with the default style.
func NewStory() Story {
	return Story{
		EndPage: EndPage{Title: DefaultEndPageTitle},
		Style:   DefaultStyle(),
	}
}
