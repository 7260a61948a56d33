// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fumiama/go-docx"

	imgproc "github.com/olegiv/storybook-go/internal/imaging"
)

// Size of each page image in the document, in pixels at 96 dpi.
const (
	docxImageWidth  = 595
	docxImageHeight = 842
	emuPerPixel     = 9525
)

// docxAssembler builds an A4 document with one centered JPEG per paragraph
// and a page break before every page but the first.
type docxAssembler struct {
	doc   *docx.Docx
	pages int
}

func newDOCXAssembler() *docxAssembler {
	return &docxAssembler{doc: docx.New().WithDefaultTheme()}
}

func (a *docxAssembler) AddPage(img image.Image) error {
	sized := imaging.Resize(img, docxImageWidth, docxImageHeight, imaging.Lanczos)
	data, err := imgproc.Encode(sized, "jpeg", imgproc.DefaultQuality)
	if err != nil {
		return err
	}

	para := a.doc.AddParagraph().Justification("center")
	if a.pages > 0 {
		para.AddPageBreaks()
	}
	run, err := para.AddInlineDrawing(data)
	if err != nil {
		return fmt.Errorf("embedding page image: %w", err)
	}
	setDrawingExtent(run, docxImageWidth*emuPerPixel, docxImageHeight*emuPerPixel)
	a.pages++
	return nil
}

func (a *docxAssembler) Bytes() ([]byte, error) {
	// The section properties close the body, so they go in last.
	a.doc.WithA4Page()

	var buf bytes.Buffer
	if _, err := a.doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing docx: %w", err)
	}
	return buf.Bytes(), nil
}

// setDrawingExtent pins the displayed size of an inline picture. The library
// otherwise scales portrait images to half the page width.
func setDrawingExtent(run *docx.Run, cx, cy int64) {
	for _, child := range run.Children {
		d, ok := child.(*docx.Drawing)
		if !ok || d.Inline == nil {
			continue
		}
		if d.Inline.Extent != nil {
			d.Inline.Extent.CX, d.Inline.Extent.CY = cx, cy
		}
		if g := d.Inline.Graphic; g != nil && g.GraphicData != nil && g.GraphicData.Pic != nil && g.GraphicData.Pic.SpPr != nil {
			g.GraphicData.Pic.SpPr.Xfrm.Ext = docx.AExt{CX: cx, CY: cy}
		}
	}
}
