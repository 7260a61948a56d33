// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging ingests page images and converts bitmaps between formats.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/olegiv/storybook-go/internal/model"
)

// MaxBatchFiles is the largest number of files accepted in one upload.
const MaxBatchFiles = 100

// DefaultQuality is the JPEG quality used for page images and exports.
const DefaultQuality = 95

var (
	ErrTooManyFiles     = errors.New("too many files")
	ErrUnsupportedType  = errors.New("unsupported image type")
	ErrUndecodableImage = errors.New("image cannot be decoded")
)

// Upload is one file from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FileError names the file a batch was rejected for.
type FileError struct {
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Processor turns uploaded files into page images using pure Go libraries.
type Processor struct {
	quality int
}

// NewProcessor creates a new image processor.
func NewProcessor() *Processor {
	return &Processor{quality: DefaultQuality}
}

// IngestBatch validates a whole batch before processing any of it: more than
// MaxBatchFiles files, or any file that is not JPEG or PNG, rejects the batch.
// An empty batch is returned as is.
func (p *Processor) IngestBatch(uploads []Upload) ([]model.ImageRef, error) {
	if len(uploads) > MaxBatchFiles {
		return nil, fmt.Errorf("%w: %d files, limit is %d", ErrTooManyFiles, len(uploads), MaxBatchFiles)
	}
	for _, u := range uploads {
		if !p.acceptable(u) {
			return nil, &FileError{Filename: u.Filename, Err: ErrUnsupportedType}
		}
	}

	refs := make([]model.ImageRef, 0, len(uploads))
	for _, u := range uploads {
		ref, err := p.Process(u.Data)
		if err != nil {
			return nil, &FileError{Filename: u.Filename, Err: err}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// acceptable checks both the declared and the sniffed type.
func (p *Processor) acceptable(u Upload) bool {
	declared := stripParams(u.ContentType)
	if declared != "" && declared != "application/octet-stream" && !model.IsPageImageMimeType(declared) {
		return false
	}
	return model.IsPageImageMimeType(p.DetectMimeType(u.Data))
}

// Process decodes an image, applies its EXIF orientation and re-encodes it
// without metadata.
func (p *Processor) Process(data []byte) (model.ImageRef, error) {
	format := detectFormat(data)
	if format == "" {
		return model.ImageRef{}, ErrUnsupportedType
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	encoded, err := Encode(img, format, p.quality)
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return model.ImageRef{
		MimeType: formatToMimeType(format),
		Data:     encoded,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// DetectMimeType detects the MIME type of image data.
func (p *Processor) DetectMimeType(data []byte) string {
	return stripParams(http.DetectContentType(data))
}

// Decode returns the bitmap behind ref.
func Decode(ref model.ImageRef) (image.Image, error) {
	if ref.IsZero() {
		return nil, ErrUndecodableImage
	}
	img, err := imaging.Decode(bytes.NewReader(ref.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	return img, nil
}

// Encode encodes img as "jpeg" or "png". JPEG uses quality.
func Encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, img, format, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo is Encode writing to w.
func EncodeTo(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		// JPEG has no alpha channel; flatten onto white first.
		return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// ToRef encodes img into an ImageRef.
func ToRef(img image.Image, format string, quality int) (model.ImageRef, error) {
	data, err := Encode(img, format, quality)
	if err != nil {
		return model.ImageRef{}, err
	}
	b := img.Bounds()
	return model.ImageRef{MimeType: formatToMimeType(format), Data: data, Width: b.Dx(), Height: b.Dy()}, nil
}

func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), image.White.C)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// detectFormat detects the page image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	default:
		return "application/octet-stream"
	}
}

func stripParams(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}
