package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMessage(t *testing.T) {
	tr := New("ko")

	assert.Equal(t, "이미 커플이 완성되었습니다", tr.Message(language.Korean, KeyCoupleComplete))
	assert.Equal(t, "유효하지 않은 초대 코드입니다", tr.Message(language.Korean, KeyInvalidInviteCode))
	assert.Equal(t, "This couple is already complete", tr.Message(language.English, KeyCoupleComplete))
}

func TestEveryKeyIsTranslated(t *testing.T) {
	for key := range korean {
		_, ok := english[key]
		assert.True(t, ok, "missing english message for %s", key)
	}
	for key := range english {
		_, ok := korean[key]
		assert.True(t, ok, "missing korean message for %s", key)
	}
}

func TestResolveTag(t *testing.T) {
	tr := New("ko")

	tests := []struct {
		name      string
		query     string
		cookie    string
		accept    string
		want      language.Tag
		fromQuery bool
	}{
		{name: "default", want: language.Korean},
		{name: "query", query: "en", want: language.English, fromQuery: true},
		{name: "query region", query: "en-GB", want: language.English, fromQuery: true},
		{name: "unsupported query falls through", query: "fr", want: language.Korean},
		{name: "cookie", cookie: "en", want: language.English},
		{name: "query beats cookie", query: "ko", cookie: "en", want: language.Korean, fromQuery: true},
		{name: "accept-language", accept: "en-US,en;q=0.9", want: language.English},
		{name: "accept-language korean", accept: "ko-KR,ko;q=0.9,en;q=0.5", want: language.Korean},
		{name: "accept-language unsupported", accept: "fr-FR", want: language.Korean},
		{name: "cookie beats accept", cookie: "ko", accept: "en", want: language.Korean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/"
			if tt.query != "" {
				target += "?lang=" + tt.query
			}
			r := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}

			got, fromQuery := tr.ResolveTag(r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fromQuery, fromQuery)
		})
	}
}

func TestEnglishDefault(t *testing.T) {
	tr := New("en")
	assert.Equal(t, language.English, tr.Default())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	got, _ := tr.ResolveTag(r)
	assert.Equal(t, language.English, got)
}

func TestUnknownDefaultFallsBackToKorean(t *testing.T) {
	assert.Equal(t, language.Korean, New("xx").Default())
}

func TestSetLanguageCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetLanguageCookie(w, language.English)

	cookies := w.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, LangCookieName, cookies[0].Name)
		assert.Equal(t, "en", cookies[0].Value)
	}
}

func TestLocalizerFromContext(t *testing.T) {
	tr := New("ko")

	ctx := WithLocalizer(context.Background(), tr.Localizer(language.English))
	l := FromContext(ctx)
	assert.Equal(t, language.English, l.Tag())
	assert.Equal(t, "Invalid invite code", l.Message(KeyInvalidInviteCode))

	// Without a localizer the Korean catalog is used
	assert.Equal(t, "유효하지 않은 초대 코드입니다", FromContext(context.Background()).Message(KeyInvalidInviteCode))
}
