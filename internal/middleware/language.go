// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/olegiv/storybook-go/internal/i18n"
)

// ContextKeyLanguage holds the message language of the request.
const ContextKeyLanguage ContextKey = "language"

// Language picks the message language for each request. An explicit ?lang=
// query parameter wins over the Accept-Language header.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if q := r.URL.Query().Get("lang"); q != "" && i18n.IsSupported(q) {
			lang = q
		} else {
			lang = i18n.MatchLanguage(r.Header.Get("Accept-Language"))
		}
		w.Header().Set("Content-Language", lang)
		ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLanguage returns the request language, or the default language when
// the Language middleware did not run.
func GetLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.SupportedLanguages[0]
}
