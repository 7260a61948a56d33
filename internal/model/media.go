// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeSVG  = "image/svg+xml"
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// PageImageMimeTypes lists the formats accepted for page images.
var PageImageMimeTypes = []string{MimeTypeJPEG, MimeTypePNG}

// IsPageImageMimeType reports whether a page image may use mimeType.
func IsPageImageMimeType(mimeType string) bool {
	for _, m := range PageImageMimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// ErrInvalidDataURI is returned when a data URI cannot be decoded.
var ErrInvalidDataURI = errors.New("invalid data URI")

// ImageRef is an image held inline as encoded bytes.
type ImageRef struct {
	MimeType string
	Data     []byte
	Width    int
	Height   int
}

// IsZero reports whether the reference holds no image.
func (r ImageRef) IsZero() bool {
	return len(r.Data) == 0
}

// DataURI returns the image as a base64 data URI.
func (r ImageRef) DataURI() string {
	if r.IsZero() {
		return ""
	}
	return "data:" + r.MimeType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

type imageRefJSON struct {
	Src    string `json:"src"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// MarshalJSON encodes the image as {"src": <data URI>, "width", "height"}.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(imageRefJSON{Src: r.DataURI(), Width: r.Width, Height: r.Height})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (r *ImageRef) UnmarshalJSON(b []byte) error {
	var raw imageRefJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Src == "" {
		*r = ImageRef{}
		return nil
	}
	ref, err := ParseDataURI(raw.Src)
	if err != nil {
		return err
	}
	ref.Width, ref.Height = raw.Width, raw.Height
	*r = ref
	return nil
}

// ParseDataURI decodes a base64 data URI such as "data:image/png;base64,...".
func ParseDataURI(uri string) (ImageRef, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ImageRef{}, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return ImageRef{}, ErrInvalidDataURI
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return ImageRef{MimeType: mimeType, Data: []byte(payload)}, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ImageRef{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return ImageRef{MimeType: mimeType, Data: data}, nil
}
