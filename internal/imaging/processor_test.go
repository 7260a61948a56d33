// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/olegiv/storybook-go/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeTestImage(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := createTestImage(w, h)
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestIngestBatch(t *testing.T) {
	p := NewProcessor()
	uploads := []Upload{
		{Filename: "a.png", ContentType: model.MimeTypePNG, Data: encodeTestImage(t, "png", 20, 10)},
		{Filename: "b.jpg", ContentType: model.MimeTypeJPEG, Data: encodeTestImage(t, "jpeg", 8, 16)},
	}

	refs, err := p.IngestBatch(uploads)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].MimeType != model.MimeTypePNG || refs[0].Width != 20 || refs[0].Height != 10 {
		t.Errorf("refs[0] = %s %dx%d, want image/png 20x10", refs[0].MimeType, refs[0].Width, refs[0].Height)
	}
	if refs[1].MimeType != model.MimeTypeJPEG || refs[1].Width != 8 || refs[1].Height != 16 {
		t.Errorf("refs[1] = %s %dx%d, want image/jpeg 8x16", refs[1].MimeType, refs[1].Width, refs[1].Height)
	}
}

func TestIngestBatchRejectsWholeBatch(t *testing.T) {
	p := NewProcessor()
	pngData := encodeTestImage(t, "png", 4, 4)

	t.Run("too many files", func(t *testing.T) {
		uploads := make([]Upload, MaxBatchFiles+1)
		for i := range uploads {
			uploads[i] = Upload{Filename: "x.png", ContentType: model.MimeTypePNG, Data: pngData}
		}
		refs, err := p.IngestBatch(uploads)
		if !errors.Is(err, ErrTooManyFiles) {
			t.Errorf("error = %v, want ErrTooManyFiles", err)
		}
		if refs != nil {
			t.Errorf("got %d refs, want none", len(refs))
		}
	})

	t.Run("exactly the limit", func(t *testing.T) {
		uploads := make([]Upload, MaxBatchFiles)
		for i := range uploads {
			uploads[i] = Upload{Filename: "x.png", ContentType: model.MimeTypePNG, Data: pngData}
		}
		if _, err := p.IngestBatch(uploads); err != nil {
			t.Errorf("IngestBatch(%d files) = %v, want nil", MaxBatchFiles, err)
		}
	})

	t.Run("one gif", func(t *testing.T) {
		uploads := []Upload{
			{Filename: "a.png", ContentType: model.MimeTypePNG, Data: pngData},
			{Filename: "b.gif", ContentType: model.MimeTypeGIF, Data: encodeTestImage(t, "gif", 4, 4)},
		}
		refs, err := p.IngestBatch(uploads)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("error = %v, want ErrUnsupportedType", err)
		}
		var fe *FileError
		if !errors.As(err, &fe) || fe.Filename != "b.gif" {
			t.Errorf("error = %v, want FileError for b.gif", err)
		}
		if refs != nil {
			t.Errorf("got %d refs, want none", len(refs))
		}
	})

	t.Run("mislabelled gif", func(t *testing.T) {
		uploads := []Upload{{Filename: "c.png", ContentType: model.MimeTypePNG, Data: encodeTestImage(t, "gif", 4, 4)}}
		if _, err := p.IngestBatch(uploads); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("error = %v, want ErrUnsupportedType", err)
		}
	})
}

func TestIngestEmptyBatch(t *testing.T) {
	refs, err := NewProcessor().IngestBatch(nil)
	if err != nil || len(refs) != 0 {
		t.Errorf("IngestBatch(nil) = %v, %v; want empty, nil", refs, err)
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(30, 10)
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 30, 10},
		{3, 30, 10},
		{6, 10, 30},
		{8, 10, 30},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4)) // fully transparent
	ref, err := ToRef(img, "jpeg", DefaultQuality)
	if err != nil {
		t.Fatalf("ToRef: %v", err)
	}
	if ref.MimeType != model.MimeTypeJPEG || ref.Width != 6 || ref.Height != 4 {
		t.Errorf("ToRef() = %s %dx%d", ref.MimeType, ref.Width, ref.Height)
	}

	decoded, err := Decode(ref)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, g, b, _ := decoded.At(2, 2).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel encoded as %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}

	if _, err := Encode(img, "bmp", 90); err == nil {
		t.Error("Encode(bmp) expected error")
	}
	if _, err := Decode(model.ImageRef{}); !errors.Is(err, ErrUndecodableImage) {
		t.Errorf("Decode(empty) error = %v", err)
	}
}
