// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"strings"
)

// SanitizeFilename extracts only the base filename of an uploaded file,
// removing any directory components. Browsers on Windows may send
// backslash-separated paths, so both separators are honoured.
func SanitizeFilename(filename string) (string, error) {
	safe := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if safe == "." || safe == ".." || safe == "" || safe == "/" {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return safe, nil
}
