// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultFont is the font family used until a template says otherwise.
const DefaultFont = "'Cairo', sans-serif"

// TitleTheme colors the title and end pages.
type TitleTheme struct {
	Background    string `json:"background"`
	BorderColor   string `json:"borderColor"`
	TitleColor    string `json:"titleColor"`
	SubtitleColor string `json:"subtitleColor"`
}

// StoryTheme colors the story pages.
type StoryTheme struct {
	Background           string `json:"background"`
	BorderColor          string `json:"borderColor"`
	InnerBackground      string `json:"innerBackground"`
	TextBoxBackground    string `json:"textBoxBackground"`
	TextBoxBorder        string `json:"textBoxBorder"`
	TextColor            string `json:"textColor"`
	PageNumberBackground string `json:"pageNumberBackground"`
	PageNumberColor      string `json:"pageNumberColor"`
}

// Theme is the full color scheme of a story.
type Theme struct {
	Title TitleTheme `json:"title"`
	Story StoryTheme `json:"story"`
}

// Frame is a decorative SVG mask drawn around each page in Color.
type Frame struct {
	SVG   string `json:"svg"`
	Color string `json:"color"`
}

// InnerBorder styles the border around the page image. Either SVG is set, or
// BorderStyle/BorderWidth describe a CSS border.
type InnerBorder struct {
	Name        string `json:"name"`
	SVG         string `json:"svg,omitempty"`
	BorderStyle string `json:"borderStyle,omitempty"`
	BorderWidth int    `json:"borderWidth,omitempty"`
}

// Style is the visual configuration a template captures.
type Style struct {
	Theme       Theme        `json:"theme"`
	Font        string       `json:"font"`
	Frame       *Frame       `json:"frame"`
	InnerBorder *InnerBorder `json:"innerBorder"`
}

// Template is a named, saved Style.
type Template struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Style     Style     `json:"style"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultTheme returns the amber color scheme new stories start with.
func DefaultTheme() Theme {
	return Theme{
		Title: TitleTheme{
			Background:    "#78350f",
			BorderColor:   "#fcd34d",
			TitleColor:    "#ffffff",
			SubtitleColor: "#fde68a",
		},
		Story: StoryTheme{
			Background:           "#fcd34d",
			BorderColor:          "#92400e",
			InnerBackground:      "#fefce8",
			TextBoxBackground:    "#ffffff",
			TextBoxBorder:        "#92400e",
			TextColor:            "#292524",
			PageNumberBackground: "#92400e",
			PageNumberColor:      "#ffffff",
		},
	}
}

// DefaultStyle returns the default theme and font with no frame or inner border.
func DefaultStyle() Style {
	return Style{Theme: DefaultTheme(), Font: DefaultFont}
}

// ErrInvalidStyle is returned by Style.Validate.
var ErrInvalidStyle = errors.New("invalid style")

// Validate checks that every color is a parseable hex color.
func (s Style) Validate() error {
	colors := map[string]string{
		"title.background":           s.Theme.Title.Background,
		"title.borderColor":          s.Theme.Title.BorderColor,
		"title.titleColor":           s.Theme.Title.TitleColor,
		"title.subtitleColor":        s.Theme.Title.SubtitleColor,
		"story.background":           s.Theme.Story.Background,
		"story.borderColor":          s.Theme.Story.BorderColor,
		"story.innerBackground":      s.Theme.Story.InnerBackground,
		"story.textBoxBackground":    s.Theme.Story.TextBoxBackground,
		"story.textBoxBorder":        s.Theme.Story.TextBoxBorder,
		"story.textColor":            s.Theme.Story.TextColor,
		"story.pageNumberBackground": s.Theme.Story.PageNumberBackground,
		"story.pageNumberColor":      s.Theme.Story.PageNumberColor,
	}
	if s.Frame != nil {
		colors["frame.color"] = s.Frame.Color
	}
	for field, value := range colors {
		if _, err := colorful.Hex(value); err != nil {
			return fmt.Errorf("%w: color %s=%q: %v", ErrInvalidStyle, field, value, err)
		}
	}
	if s.InnerBorder != nil && s.InnerBorder.BorderWidth < 0 {
		return fmt.Errorf("%w: inner border width %d", ErrInvalidStyle, s.InnerBorder.BorderWidth)
	}
	return nil
}

func themeVariant(title TitleTheme, story StoryTheme) Style {
	s := DefaultStyle()
	s.Theme = Theme{Title: title, Story: story}
	return s
}

// PredefinedTemplates are the built-in templates offered next to saved ones.
// They carry negative IDs so they never collide with stored templates.
func PredefinedTemplates() []Template {
	vintage := themeVariant(
		TitleTheme{"#7f5539", "#e6ccb2", "#f5f5f5", "#ede0d4"},
		StoryTheme{"#ddb892", "#7f5539", "#fefae0", "#fdf6e7", "#9c6644", "#4b3832", "#7f5539", "#ffffff"},
	)
	vintage.Font = "'Amiri', serif"

	templates := []Template{
		{Name: "Default", Style: DefaultStyle()},
		{Name: "Enchanted Forest", Style: themeVariant(
			TitleTheme{"#064e3b", "#a7f3d0", "#ecfdf5", "#d1fae5"},
			StoryTheme{"#6ee7b7", "#065f46", "#f0fdf4", "#ffffff", "#047857", "#1f2937", "#065f46", "#ffffff"},
		)},
		{Name: "Ocean Dream", Style: themeVariant(
			TitleTheme{"#1e3a8a", "#93c5fd", "#eff6ff", "#dbeafe"},
			StoryTheme{"#60a5fa", "#1d4ed8", "#f0f9ff", "#ffffff", "#1e40af", "#1e293b", "#1e40af", "#ffffff"},
		)},
		{Name: "Cosmic Wonder", Style: themeVariant(
			TitleTheme{"#312e81", "#a5b4fc", "#e0e7ff", "#c7d2fe"},
			StoryTheme{"#818cf8", "#4338ca", "#f5f3ff", "#1e1b4b", "#4f46e5", "#eef2ff", "#4338ca", "#f5f3ff"},
		)},
		{Name: "Vintage Paper", Style: vintage},
		{Name: "Sunny Day", Style: themeVariant(
			TitleTheme{"#f59e0b", "#fef08a", "#fffbeb", "#fef9c3"},
			StoryTheme{"#facc15", "#ca8a04", "#fefce8", "#ffffff", "#eab308", "#334155", "#d97706", "#ffffff"},
		)},
		{Name: "Night Sky", Style: themeVariant(
			TitleTheme{"#111827", "#4f46e5", "#e5e7eb", "#9ca3af"},
			StoryTheme{"#374151", "#4f46e5", "#1f2937", "#111827", "#818cf8", "#d1d5db", "#4f46e5", "#e5e7eb"},
		)},
	}
	for i := range templates {
		templates[i].ID = -int64(i + 1)
	}
	return templates
}

// IsBuiltin reports whether t is one of the predefined templates.
func (t Template) IsBuiltin() bool {
	return t.ID < 0
}

// PredefinedTemplate returns the built-in template with the given ID.
func PredefinedTemplate(id int64) (Template, bool) {
	for _, t := range PredefinedTemplates() {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
