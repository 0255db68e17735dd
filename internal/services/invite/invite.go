package invite

import (
	"regexp"
	"strings"

	"github.com/mcoot/weddingplanner/internal/dependencies/random"
	"github.com/mcoot/weddingplanner/internal/model"
)

const (
	// CodeLength is the length of generated invite codes
	CodeLength = 6
	// Alphabet is the base-36 alphabet codes are drawn from before uppercasing
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// Generator produces candidate invite codes. Codes are not unique by
// construction; the couple store's unique index is the authority and
// callers retry on model.ErrInviteCodeTaken.
type Generator struct {
	random random.Random
}

// NewGenerator creates a new Generator
func NewGenerator(random random.Random) *Generator {
	return &Generator{random: random}
}

// Generate returns a fresh 6-character uppercase code
func (g *Generator) Generate() model.InviteCode {
	return model.InviteCode(strings.ToUpper(g.random.String(CodeLength, Alphabet)))
}

// Normalize trims and uppercases raw user input and reports whether the
// result has the shape of an invite code
func Normalize(raw string) (model.InviteCode, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !codePattern.MatchString(code) {
		return "", false
	}
	return model.InviteCode(code), true
}

// Valid reports whether code has the shape of an invite code
func Valid(code model.InviteCode) bool {
	return codePattern.MatchString(string(code))
}
