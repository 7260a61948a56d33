// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/olegiv/storybook-go/internal/model"
)

var errUndecodableSVG = errors.New("undecodable svg")

// evenOddRule finds an even-odd fill rule in an attribute or style.
var evenOddRule = regexp.MustCompile(`fill-rule\s*[:=]\s*["']?evenodd`)

// svgFit says how a drawing is placed in its target rectangle.
type svgFit uint8

const (
	// fitStretch scales each axis independently to fill the target.
	fitStretch svgFit = iota
	// fitContain keeps the aspect ratio and centers the drawing.
	fitContain
)

// rasterizeSVG draws markup onto a transparent w x h bitmap.
func rasterizeSVG(markup string, w, h int, fit svgFit) (img *image.RGBA, err error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty target %dx%d", errUndecodableSVG, w, h)
	}
	// The parser panics on some malformed path data.
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("%w: %v", errUndecodableSVG, p)
		}
	}()

	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUndecodableSVG, err)
	}
	// The parser always fills nonzero, which closes the holes of frame paths.
	if evenOddRule.MatchString(markup) {
		for i := range icon.SVGPaths {
			icon.SVGPaths[i].UseNonZeroWinding = false
		}
	}

	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return nil, fmt.Errorf("%w: no view box or size", errUndecodableSVG)
	}

	x, y, tw, th := 0.0, 0.0, float64(w), float64(h)
	if fit == fitContain {
		s := math.Min(tw/vb.W, th/vb.H)
		tw, th = vb.W*s, vb.H*s
		x, y = (float64(w)-tw)/2, (float64(h)-th)/2
	}
	icon.SetTarget(x, y, tw, th)

	img = image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// svgMarkup returns the markup of an SVG sticker source, either raw markup
// or an image/svg+xml data URI.
func svgMarkup(src string) (string, bool) {
	trimmed := strings.TrimSpace(src)
	if strings.HasPrefix(trimmed, "<") {
		return trimmed, true
	}
	ref, err := model.ParseDataURI(trimmed)
	if err != nil {
		return "", false
	}
	mimeType, _, _ := strings.Cut(ref.MimeType, ";")
	if mimeType != model.MimeTypeSVG {
		return "", false
	}
	markup := string(ref.Data)
	if meta, _, _ := strings.Cut(trimmed, ","); !strings.HasSuffix(meta, ";base64") {
		if unescaped, err := url.PathUnescape(markup); err == nil {
			markup = unescaped
		}
	}
	return markup, true
}

// mask paints col through the alpha of an SVG drawn stretched over r, the
// way a CSS mask-image with mask-size 100% does. It reports false when the
// markup cannot be drawn.
func (c *canvas) mask(r image.Rectangle, markup string, col color.Color) bool {
	m, err := rasterizeSVG(markup, r.Dx(), r.Dy(), fitStretch)
	if err != nil {
		return false
	}
	draw.DrawMask(c.img, r, image.NewUniform(col), image.Point{}, m, image.Point{}, draw.Over)
	return true
}
