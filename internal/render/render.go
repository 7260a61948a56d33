// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render rasterizes storybook pages.
//
// Every page is laid out on a 360x640 base surface and drawn at a scale
// factor. Overlay geometry is in percent of that surface, so the same page
// renders identically at any scale.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/olegiv/storybook-go/internal/geometry"
	imgproc "github.com/olegiv/storybook-go/internal/imaging"
	"github.com/olegiv/storybook-go/internal/model"
)

// Base page size in layout units.
const (
	BaseWidth  = 360
	BaseHeight = 640
)

// MaxScale bounds the scale factor of a single render.
const MaxScale = 8

var ErrInvalidScale = errors.New("invalid render scale")

// PageKind says which layout a page uses.
type PageKind uint8

const (
	KindStory PageKind = iota
	KindTitle
	KindEnd
)

// PageSpec is everything needed to draw one page.
type PageSpec struct {
	Kind     PageKind
	Style    model.Style
	Title    string
	Subtitle string
	Page     *model.Page // KindStory only
	Number   int         // 1-based story page number
}

// Chrome is the editing decoration drawn on top of a story page.
type Chrome struct {
	PageNumber bool
	Selected   bool
	Cut        bool
	Outlines   bool
}

// EditorChrome returns the chrome the editor shows for a page.
func EditorChrome(selected, cut bool) Chrome {
	return Chrome{PageNumber: true, Selected: selected, Cut: cut, Outlines: true}
}

// Options control a single render.
type Options struct {
	Scale      float64
	Background color.Color // used when the theme color is unusable
	Chrome     Chrome
}

var (
	outlineColor  = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	selectedColor = color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	cutColor      = color.NRGBA{R: 0xf9, G: 0x73, B: 0x16, A: 0xff}
)

// Rasterizer draws pages. It is safe for concurrent use.
type Rasterizer struct {
	fonts *fontSet
}

// NewRasterizer creates a rasterizer using the bundled Go fonts.
func NewRasterizer() (*Rasterizer, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Rasterizer{fonts: fonts}, nil
}

// Render draws spec and returns the bitmap.
func (r *Rasterizer) Render(spec PageSpec, opts Options) (*image.NRGBA, error) {
	if opts.Scale <= 0 || opts.Scale > MaxScale || math.IsNaN(opts.Scale) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, opts.Scale)
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	c := newCanvas(opts.Scale, opts.Background)
	faces, err := r.fonts.faces(opts.Scale)
	if err != nil {
		return nil, err
	}
	defer faces.close()

	switch spec.Kind {
	case KindTitle, KindEnd:
		r.drawCover(c, faces, spec)
	default:
		if spec.Page == nil {
			return nil, errors.New("story page has no content")
		}
		if err := r.drawStoryPage(c, faces, spec, opts.Chrome); err != nil {
			return nil, err
		}
	}
	return c.img, nil
}

func (r *Rasterizer) drawCover(c *canvas, f *faceSet, spec PageSpec) {
	theme := spec.Style.Theme.Title
	c.fill(c.bounds(), parseColor(theme.Background, c.background))
	c.stroke(c.bounds(), 10, parseColor(theme.BorderColor, c.background))
	if spec.Style.Frame != nil {
		drawFrame(c, spec.Style.Frame, c.inset(c.bounds(), 10), 4)
	}

	titleBox := c.rect(30, 200, BaseWidth-60, 140)
	c.text(f.title, spec.Title, titleBox, parseColor(theme.TitleColor, color.White), alignCenter)
	if spec.Subtitle != "" {
		subBox := c.rect(30, 350, BaseWidth-60, 100)
		c.text(f.subtitle, spec.Subtitle, subBox, parseColor(theme.SubtitleColor, color.White), alignCenter)
	}
}

func (r *Rasterizer) drawStoryPage(c *canvas, f *faceSet, spec PageSpec, chrome Chrome) error {
	theme := spec.Style.Theme.Story
	page := spec.Page

	c.fill(c.bounds(), parseColor(theme.Background, c.background))
	if spec.Style.Frame != nil {
		drawFrame(c, spec.Style.Frame, c.bounds(), 14)
	} else {
		c.stroke(c.bounds(), 6, parseColor(theme.BorderColor, c.background))
	}

	inner := c.inset(c.bounds(), 14)
	c.fill(inner, parseColor(theme.InnerBackground, color.White))
	textColor := parseColor(theme.TextColor, color.Black)

	top := 22.0
	if page.Title != "" {
		titleColor := parseColor(page.TitleColor, textColor)
		c.text(f.heading, page.Title, c.rect(22, top, BaseWidth-44, 34), titleColor, alignCenter)
		top += 38
	}

	imageBox := c.rect(22, top, BaseWidth-44, 372-top+22)
	if !page.Image.IsZero() {
		img, err := imgproc.Decode(page.Image)
		if err != nil {
			return fmt.Errorf("page %s image: %w", page.ID, err)
		}
		fitted := imaging.Fill(img, imageBox.Dx(), imageBox.Dy(), imaging.Center, imaging.Lanczos)
		c.img = imaging.Paste(c.img, fitted, imageBox.Min)
	}
	if b := spec.Style.InnerBorder; b != nil {
		borderColor := parseColor(theme.BorderColor, textColor)
		drawn := b.SVG != "" && c.mask(imageBox, b.SVG, borderColor)
		if !drawn && b.BorderWidth > 0 {
			c.stroke(imageBox, float64(b.BorderWidth), borderColor)
		}
	}

	if page.Text != "" {
		textBox := c.rect(22, 404, BaseWidth-44, 182)
		c.fill(textBox, parseColor(theme.TextBoxBackground, color.White))
		c.stroke(textBox, 2, parseColor(theme.TextBoxBorder, textColor))
		c.text(f.body, page.Text, c.inset(textBox, 8), textColor, alignStart)
	}

	surface := c.size()
	if page.Box != nil {
		rect := c.pixelRect(page.Box.ToPixels(surface))
		c.fill(rect, withAlpha(parseColor(theme.TextBoxBackground, color.White), 0xe6))
		c.stroke(rect, 1.5, parseColor(theme.TextBoxBorder, textColor))
		c.text(f.body, page.Box.Text, c.inset(rect, 6), textColor, alignStart)
		if chrome.Outlines {
			c.stroke(c.grow(rect, 2), 1, outlineColor)
		}
	}

	for _, s := range page.Stickers {
		rect := c.pixelRect(s.Geometry.ToPixels(surface))
		if rect.Empty() {
			continue
		}
		if img, ok := decodeSticker(s.Src, rect.Dx(), rect.Dy()); ok {
			c.img = imaging.Overlay(c.img, img, rect.Min, 1.0)
		} else {
			c.placeholder(rect, parseColor(theme.BorderColor, textColor))
		}
		if chrome.Outlines {
			c.stroke(c.grow(rect, 2), 1, outlineColor)
		}
	}

	if chrome.PageNumber && spec.Number > 0 {
		center := c.point(BaseWidth/2, BaseHeight-30)
		c.disc(center, 14, parseColor(theme.PageNumberBackground, textColor))
		c.text(f.badge, fmt.Sprint(spec.Number), c.rect(BaseWidth/2-14, BaseHeight-44, 28, 28),
			parseColor(theme.PageNumberColor, color.White), alignCenterMiddle)
	}
	if chrome.Selected {
		marker := c.rect(BaseWidth-44, 22, 22, 22)
		c.fill(marker, selectedColor)
		c.stroke(marker, 2, color.White)
	}
	if chrome.Cut {
		c.stroke(c.bounds(), 5, cutColor)
	}
	return nil
}

// decodeSticker draws a sticker source at w x h. SVG markup keeps its
// aspect ratio inside the box while raster images fill it. Sources that
// cannot be drawn report false.
func decodeSticker(src string, w, h int) (image.Image, bool) {
	if markup, ok := svgMarkup(src); ok {
		img, err := rasterizeSVG(markup, w, h, fitContain)
		if err != nil {
			return nil, false
		}
		return img, true
	}

	ref, err := model.ParseDataURI(src)
	if err != nil || !model.IsPageImageMimeType(ref.MimeType) {
		return nil, false
	}
	img, err := imgproc.Decode(ref)
	if err != nil {
		return nil, false
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), true
}

// drawFrame paints the frame's SVG as a mask over the whole page. Frames
// without usable markup fall back to a plain border of width inside r.
func drawFrame(c *canvas, f *model.Frame, r image.Rectangle, width float64) {
	col := parseColor(f.Color, c.background)
	if f.SVG != "" && c.mask(c.bounds(), f.SVG, col) {
		return
	}
	c.stroke(r, width, col)
}

// pageSize is the surface overlays are positioned against.
func pageSize(scale float64) geometry.Size {
	return geometry.Size{Width: BaseWidth * scale, Height: BaseHeight * scale}
}
