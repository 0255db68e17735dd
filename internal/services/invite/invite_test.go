package invite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/weddingplanner/internal/dependencies/mocks"
	"github.com/mcoot/weddingplanner/internal/dependencies/random"
	"github.com/mcoot/weddingplanner/internal/model"
)

func TestGenerateMatchesCodeShape(t *testing.T) {
	g := NewGenerator(random.New())

	for i := 0; i < 1000; i++ {
		code := g.Generate()
		assert.Regexp(t, `^[A-Z0-9]{6}$`, string(code))
		assert.True(t, Valid(code))
	}
}

func TestGenerateUppercasesDrawnCharacters(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("ab12yz")

	code := NewGenerator(rnd).Generate()
	assert.Equal(t, model.InviteCode("AB12YZ"), code)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  model.InviteCode
		valid bool
	}{
		{"uppercase", "ABC123", "ABC123", true},
		{"lowercase", "abc123", "ABC123", true},
		{"surrounding spaces", "  abc123 ", "ABC123", true},
		{"too short", "ABC12", "", false},
		{"too long", "ABC1234", "", false},
		{"punctuation", "ABC-12", "", false},
		{"empty", "", "", false},
		{"hangul", "가나다라마바", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
