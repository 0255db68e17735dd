package i18n

import (
	"context"

	"golang.org/x/text/language"
)

type contextKey string

const localizerContextKey contextKey = "localizer"

// Localizer renders messages in a single resolved language
type Localizer struct {
	translator *Translator
	tag        language.Tag
}

// Localizer returns a Localizer bound to tag
func (t *Translator) Localizer(tag language.Tag) Localizer {
	return Localizer{translator: t, tag: tag}
}

// Tag returns the bound language
func (l Localizer) Tag() language.Tag {
	return l.tag
}

// Message renders key. The zero Localizer uses the Korean catalog.
func (l Localizer) Message(key Key) string {
	if l.translator == nil {
		if msg, ok := korean[key]; ok {
			return msg
		}
		return string(key)
	}
	return l.translator.Message(l.tag, key)
}

// WithLocalizer stores l in ctx
func WithLocalizer(ctx context.Context, l Localizer) context.Context {
	return context.WithValue(ctx, localizerContextKey, l)
}

// FromContext returns the request Localizer, or the zero Localizer
func FromContext(ctx context.Context) Localizer {
	l, _ := ctx.Value(localizerContextKey).(Localizer)
	return l
}
