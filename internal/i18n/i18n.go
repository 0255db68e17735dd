// Package i18n resolves the request language and renders user-facing
// messages. Korean is the default; English is also supported.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "wedplan_lang"
)

var supportedTags = []language.Tag{
	language.Korean,
	language.English,
}

// Translator renders messages for a fixed set of languages
type Translator struct {
	fallback language.Tag
	ordered  []language.Tag
	matcher  language.Matcher
	catalog  *catalog.Builder
}

// New creates a Translator whose fallback language is defaultLang
// (e.g. "ko"). Unknown values fall back to Korean.
func New(defaultLang string) *Translator {
	fallback := language.Korean
	if tag, ok := parseSupported(defaultLang); ok {
		fallback = tag
	}

	// The matcher's first entry wins when nothing matches
	ordered := []language.Tag{fallback}
	for _, tag := range supportedTags {
		if tag != fallback {
			ordered = append(ordered, tag)
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for tag, messages := range catalogs {
		for key, msg := range messages {
			_ = b.SetString(tag, string(key), msg)
		}
	}

	return &Translator{
		fallback: fallback,
		ordered:  ordered,
		matcher:  language.NewMatcher(ordered),
		catalog:  b,
	}
}

// Default returns the fallback language
func (t *Translator) Default() language.Tag {
	return t.fallback
}

// Supported returns the supported language tags
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Printer returns a message printer for tag
func (t *Translator) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(t.catalog))
}

// Message renders key in tag's language
func (t *Translator) Message(tag language.Tag, key Key) string {
	return t.Printer(tag).Sprintf(string(key))
}

// ResolveTag determines the best language for the request: the lang query
// parameter, then the language cookie, then Accept-Language, then the
// fallback. The bool reports whether the query parameter chose it.
func (t *Translator) ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return t.fallback, false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := parseSupported(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseSupported(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, confidence := t.matcher.Match(tags...)
			if confidence != language.No {
				return t.ordered[idx], false
			}
		}
	}

	return t.fallback, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// parseSupported maps a raw tag such as "en-US" or "ko" onto a supported tag
func parseSupported(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Und, false
	}
	base, _ := tag.Base()
	for _, supported := range supportedTags {
		supportedBase, _ := supported.Base()
		if base == supportedBase {
			return supported, true
		}
	}
	return language.Und, false
}
