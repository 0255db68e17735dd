package credential

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/weddingplanner/internal/model"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin   string
		valid bool
	}{
		{"1234", true},
		{"0000", true},
		{"9999", true},
		{"", false},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{" 123", false},
		{"１２３４", false}, // full-width digits
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.pin), func(t *testing.T) {
			err := ValidatePIN(tt.pin)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, model.IsValidation(err))
		})
	}
}

func TestSHA256HasherMatchesKnownDigest(t *testing.T) {
	// sha256("1234")
	assert.Equal(t,
		"03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4",
		SHA256Hasher{}.Hash("1234"))
}

func TestSHA256HasherIsDeterministicAndCollisionFree(t *testing.T) {
	h := SHA256Hasher{}
	seen := make(map[string]string, 10000)

	for i := 0; i < 10000; i++ {
		pin := fmt.Sprintf("%04d", i)
		digest := h.Hash(pin)

		require.Regexp(t, hexDigest, digest)
		require.Equal(t, digest, h.Hash(pin), "hash must be deterministic")

		if other, ok := seen[digest]; ok {
			t.Fatalf("collision between %s and %s", pin, other)
		}
		seen[digest] = pin
	}
}

func TestArgon2HasherIsDeterministic(t *testing.T) {
	h := NewArgon2Hasher("pepper")

	first := h.Hash("1234")
	assert.Regexp(t, hexDigest, first)
	assert.Equal(t, first, h.Hash("1234"))
	assert.NotEqual(t, first, h.Hash("1235"))
}

func TestArgon2HasherDependsOnPepper(t *testing.T) {
	a := NewArgon2Hasher("pepper-a").Hash("1234")
	b := NewArgon2Hasher("pepper-b").Hash("1234")
	assert.NotEqual(t, a, b)
}

func TestNewSelectsHasher(t *testing.T) {
	assert.IsType(t, SHA256Hasher{}, New(KindSHA256, ""))
	assert.IsType(t, &Argon2Hasher{}, New(KindArgon2, "pepper"))
	assert.IsType(t, SHA256Hasher{}, New("unknown", ""))
}
