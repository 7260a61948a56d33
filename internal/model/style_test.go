// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestPredefinedTemplatesAreValid(t *testing.T) {
	templates := PredefinedTemplates()
	if len(templates) == 0 {
		t.Fatal("no predefined templates")
	}
	if templates[0].Style != DefaultStyle() {
		t.Error("first predefined template should be the default style")
	}
	for _, tmpl := range templates {
		if err := tmpl.Style.Validate(); err != nil {
			t.Errorf("template %q: %v", tmpl.Name, err)
		}
		if !tmpl.IsBuiltin() {
			t.Errorf("template %q should be builtin, id %d", tmpl.Name, tmpl.ID)
		}
		got, ok := PredefinedTemplate(tmpl.ID)
		if !ok || got.Name != tmpl.Name {
			t.Errorf("PredefinedTemplate(%d) = %q, %v", tmpl.ID, got.Name, ok)
		}
	}
	if _, ok := PredefinedTemplate(1); ok {
		t.Error("positive ids are never builtin")
	}
}

func TestStyleValidate(t *testing.T) {
	s := DefaultStyle()
	s.Theme.Story.TextColor = "red"
	if err := s.Validate(); err == nil {
		t.Error("Validate() accepted non-hex color")
	}

	s = DefaultStyle()
	s.Frame = &Frame{SVG: "<svg/>", Color: "#zzzzzz"}
	if err := s.Validate(); err == nil {
		t.Error("Validate() accepted invalid frame color")
	}

	s.Frame.Color = "#78350f"
	s.InnerBorder = &InnerBorder{Name: "thin", BorderStyle: "solid", BorderWidth: 2}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestNewStory(t *testing.T) {
	s := NewStory()
	if s.TitleSet || s.EndPage.Enabled {
		t.Errorf("NewStory() = %+v, want no title and no end page", s)
	}
	if s.EndPage.Title != DefaultEndPageTitle {
		t.Errorf("EndPage.Title = %q, want %q", s.EndPage.Title, DefaultEndPageTitle)
	}
}
