// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"

	imgproc "github.com/olegiv/storybook-go/internal/imaging"
)

// pdfAssembler lays each bitmap full-bleed on its own A4 portrait page.
type pdfAssembler struct {
	pdf   *gofpdf.Fpdf
	pages int
}

func newPDFAssembler() *pdfAssembler {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("storybook", true)
	return &pdfAssembler{pdf: pdf}
}

func (a *pdfAssembler) AddPage(img image.Image) error {
	data, err := imgproc.Encode(img, "png", 0)
	if err != nil {
		return err
	}

	a.pages++
	name := fmt.Sprintf("page-%d", a.pages)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	a.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

	a.pdf.AddPage()
	w, h := a.pdf.GetPageSize()
	a.pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	return a.pdf.Error()
}

func (a *pdfAssembler) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
