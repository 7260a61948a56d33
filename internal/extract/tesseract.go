// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"

	imgproc "github.com/olegiv/storybook-go/internal/imaging"
	"github.com/olegiv/storybook-go/internal/model"
)

// OCR preprocessing parameters.
const (
	ocrUpscale      = 2
	ocrMaxDimension = 5000
	ocrThreshold    = 128
)

// Tesseract extracts text with the tesseract command line tool.
type Tesseract struct {
	path  string
	langs string
}

// NewTesseract creates an extractor running the tesseract binary at path
// with the given "+"-separated languages.
func NewTesseract(path, langs string) *Tesseract {
	return &Tesseract{path: path, langs: langs}
}

// ExtractText implements Extractor. The image is upscaled and binarized
// before recognition.
func (t *Tesseract) ExtractText(ctx context.Context, img model.ImageRef) (string, error) {
	if img.IsZero() {
		return "", ErrEmptyImage
	}
	decoded, err := imgproc.Decode(img)
	if err != nil {
		return "", err
	}
	prepared, err := imgproc.Encode(Preprocess(decoded), "png", 0)
	if err != nil {
		return "", fmt.Errorf("encoding image for tesseract: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.path, "stdin", "stdout", "-l", t.langs)
	cmd.Stdin = bytes.NewReader(prepared)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("tesseract: %s", msg)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Preprocess prepares a page for OCR: it doubles the size (capped at
// ocrMaxDimension), converts to grayscale and thresholds to black and white.
func Preprocess(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx()*ocrUpscale, b.Dy()*ocrUpscale
	if m := max(w, h); m > ocrMaxDimension {
		w, h = w*ocrMaxDimension/m, h*ocrMaxDimension/m
	}

	out := imaging.Grayscale(imaging.Resize(img, w, h, imaging.Linear))
	for i := 0; i < len(out.Pix); i += 4 {
		v := uint8(0)
		if out.Pix[i] >= ocrThreshold {
			v = 0xff
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = v, v, v
	}
	return out
}
