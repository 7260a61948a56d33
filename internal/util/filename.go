// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// MaxFilenameRunes bounds the base name of a download, extension excluded.
const MaxFilenameRunes = 120

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]+`)
)

// DownloadFilename builds "<title>.<ext>" with characters that are unsafe in
// filenames removed. An empty title uses fallback, then "story".
func DownloadFilename(title, fallback, ext string) string {
	name := cleanFilename(title)
	if name == "" {
		name = cleanFilename(fallback)
	}
	if name == "" {
		name = "story"
	}
	if r := []rune(name); len(r) > MaxFilenameRunes {
		name = strings.TrimSpace(string(r[:MaxFilenameRunes]))
	}
	return name + "." + ext
}

func cleanFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, ". ")
}

// ASCIIFilename returns a slug of filename for clients that do not
// understand RFC 5987 encoded names. The extension is kept. Names that are
// already plain ASCII are returned unchanged.
func ASCIIFilename(filename string) string {
	if isPlainASCII(filename) {
		return filename
	}
	ext := path.Ext(filename)
	ascii := Slugify(strings.TrimSuffix(filename, ext))
	if ascii == "" {
		ascii = "download"
	}
	return ascii + ext
}

// ContentDisposition returns an attachment header value carrying both the
// ASCII fallback name and, when it differs, the UTF-8 name.
func ContentDisposition(filename string) string {
	ascii := ASCIIFilename(filename)
	v := `attachment; filename="` + ascii + `"`
	if ascii != filename {
		v += "; filename*=UTF-8''" + strings.ReplaceAll(url.QueryEscape(filename), "+", "%20")
	}
	return v
}

func isPlainASCII(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return false
		}
	}
	return true
}
