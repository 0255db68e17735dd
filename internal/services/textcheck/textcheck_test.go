package textcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/weddingplanner/internal/model"
)

func TestContainsMarkup(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Minho", false},
		{"김민호", false},
		{"Tom & Jerry", false},
		{"O'Brien", false},
		{"I <3 you", false},
		{"<b>Minho</b>", true},
		{"<script>alert(1)</script>", true},
		{`<img src=x onerror="x">`, true},
		{"&amp;", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsMarkup(tt.input))
		})
	}
}

func TestField(t *testing.T) {
	got, err := Field("name", "  Yuna  ", 30)
	require.NoError(t, err)
	assert.Equal(t, "Yuna", got)

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty", "", "required"},
		{"whitespace only", "   ", "required"},
		{"too long", "abcdefghijklmnopqrstuvwxyz12345", "too long"},
		{"control", "Yu\x00na", "contains control characters"},
		{"markup", "<i>Yuna</i>", "must not contain markup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Field("name", tt.input, 30)
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "name", ve.Field)
			assert.Equal(t, tt.reason, ve.Reason)
		})
	}
}

func TestFieldCountsRunesNotBytes(t *testing.T) {
	// 10 Hangul syllables are 30 bytes but 10 runes
	_, err := Field("name", "가나다라마바사아자차", 10)
	assert.NoError(t, err)
}
