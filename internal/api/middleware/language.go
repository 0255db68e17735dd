package middleware

import (
	"net/http"

	"github.com/mcoot/weddingplanner/internal/i18n"
)

// Language resolves the request language and stores its Localizer in
// context. An explicit ?lang= choice is remembered in a cookie.
func Language(translator *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag, fromQuery := translator.ResolveTag(r)
			if fromQuery {
				i18n.SetLanguageCookie(w, tag)
			}
			w.Header().Set("Content-Language", tag.String())

			ctx := i18n.WithLocalizer(r.Context(), translator.Localizer(tag))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
