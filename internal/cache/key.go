// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Key namespaces used by the application.
const (
	NamespacePreview = "preview"
	NamespaceText    = "text"
)

// Key builds a cache key of the form "<namespace>:<hex digest>" from the
// given parts. Parts are length-prefixed before hashing so that ("ab", "c")
// and ("a", "bc") never collide.
func Key(namespace string, parts ...[]byte) string {
	h, _ := blake2b.New256(nil) // only fails for oversized MAC keys
	var lenBuf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write(p)
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
