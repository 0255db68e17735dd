// Package textcheck validates short free-text fields such as member names
// and checklist titles.
package textcheck

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mcoot/weddingplanner/internal/model"
)

// strict strips every tag; safe for concurrent use once built
var strict = bluemonday.StrictPolicy()

// ContainsMarkup reports whether s carries HTML tags or entities that a
// strict sanitizer would alter
func ContainsMarkup(s string) bool {
	return strict.Sanitize(s) != html.EscapeString(s)
}

// Field trims raw and checks it is non-empty, at most maxRunes long, free of
// control characters and free of markup. Failures are *model.ValidationError
// tagged with field.
func Field(field, raw string, maxRunes int) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", model.NewValidationError(field, "required")
	}
	if utf8.RuneCountInString(value) > maxRunes {
		return "", model.NewValidationError(field, "too long")
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return "", model.NewValidationError(field, "contains control characters")
		}
	}
	if ContainsMarkup(value) {
		return "", model.NewValidationError(field, "must not contain markup")
	}
	return value, nil
}
