// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// controlChars matches control characters other than newline and tab.
var controlChars = runes.Remove(runes.Predicate(func(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t'
}))

// sanitizeText keeps user text as typed. Text is only ever drawn, never
// interpreted as markup, so angle brackets and entities pass through.
// Line endings are normalized to LF and invalid UTF-8 is replaced. Control
// characters other than newline and tab are dropped.
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ToValidUTF8(s, "\uFFFD")
	out, _, err := transform.String(controlChars, s)
	if err != nil {
		return s
	}
	return out
}
