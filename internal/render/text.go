// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type align uint8

const (
	alignStart align = iota
	alignCenter
	alignCenterMiddle
)

type fontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
}

func loadFonts() (*fontSet, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	return &fontSet{regular: regular, bold: bold}, nil
}

// faceSet holds the faces of one render. Faces are not safe for concurrent
// use, so every render gets its own.
type faceSet struct {
	title, subtitle, heading, body, badge font.Face
}

func (fs *fontSet) faces(scale float64) (*faceSet, error) {
	specs := []struct {
		font *opentype.Font
		size float64
	}{
		{fs.bold, 30},    // title
		{fs.regular, 18}, // subtitle
		{fs.bold, 20},    // heading
		{fs.regular, 15}, // body
		{fs.bold, 13},    // badge
	}

	faces := make([]font.Face, len(specs))
	for i, s := range specs {
		face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
			Size:    s.size * scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			for _, f := range faces[:i] {
				_ = f.Close()
			}
			return nil, fmt.Errorf("creating font face: %w", err)
		}
		faces[i] = face
	}
	return &faceSet{
		title:    faces[0],
		subtitle: faces[1],
		heading:  faces[2],
		body:     faces[3],
		badge:    faces[4],
	}, nil
}

func (f *faceSet) close() {
	for _, face := range []font.Face{f.title, f.subtitle, f.heading, f.body, f.badge} {
		if face != nil {
			_ = face.Close()
		}
	}
}

// text draws s wrapped to the width of r. Lines that do not fit the height
// of r are dropped.
func (c *canvas) text(face font.Face, s string, r image.Rectangle, col color.Color, a align) {
	lines := wrap(face, s, r.Dx())
	if len(lines) == 0 {
		return
	}
	m := face.Metrics()
	lineH := m.Height.Ceil()
	ascent := m.Ascent.Ceil()

	y := r.Min.Y
	if a == alignCenterMiddle {
		y += (r.Dy() - len(lines)*lineH) / 2
	}

	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: face}
	for i, line := range lines {
		if i > 0 && y+lineH > r.Max.Y {
			break
		}
		x := r.Min.X
		if a != alignStart {
			x += (r.Dx() - d.MeasureString(line).Ceil()) / 2
		}
		d.Dot = fixed.P(x, y+ascent)
		d.DrawString(line)
		y += lineH
	}
}

// wrap breaks s into lines no wider than width pixels. Words longer than a
// line are broken between runes.
func wrap(face font.Face, s string, width int) []string {
	if width <= 0 {
		return nil
	}
	limit := fixed.I(width)
	var lines []string
	for _, para := range strings.Split(strings.TrimSpace(s), "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if font.MeasureString(face, candidate) <= limit {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for font.MeasureString(face, word) > limit {
				head := fitRunes(face, word, limit)
				lines = append(lines, head)
				word = word[len(head):]
			}
			line = word
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// fitRunes returns the longest prefix of word that fits limit, and at least
// one rune.
func fitRunes(face font.Face, word string, limit fixed.Int26_6) string {
	end := 0
	for i, r := range word {
		next := i + len(string(r))
		if end > 0 && font.MeasureString(face, word[:next]) > limit {
			break
		}
		end = next
	}
	return word[:end]
}
