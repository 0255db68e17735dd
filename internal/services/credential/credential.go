// Package credential validates and hashes member PINs.
//
// Digests are deterministic: login looks members up by name and compares
// digests for equality, so no per-member salt is applied. The Argon2 hasher
// keys the digest with a process-wide pepper instead.
package credential

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/argon2"

	"github.com/mcoot/weddingplanner/internal/model"
)

// PINLength is the number of digits in a member PIN
const PINLength = 4

// Hasher turns a validated PIN into a fixed-length hex digest
type Hasher interface {
	Hash(pin string) string
}

// ValidatePIN rejects anything that is not exactly four ASCII digits
func ValidatePIN(pin string) error {
	if len(pin) != PINLength {
		return model.NewValidationError("pin", "must be 4 digits")
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return model.NewValidationError("pin", "must be numeric")
		}
	}
	return nil
}

// SHA256Hasher produces the lowercase hex SHA-256 of the PIN
type SHA256Hasher struct{}

// Hash implements Hasher
func (SHA256Hasher) Hash(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// Argon2id parameters (OWASP minimum profile)
const (
	argon2Time    = 2
	argon2Memory  = 19 * 1024
	argon2Threads = 1
	argon2KeyLen  = 32
)

// Argon2Hasher produces a hex argon2id digest keyed by a shared pepper
type Argon2Hasher struct {
	pepper []byte
}

// NewArgon2Hasher creates an Argon2Hasher; pepper must be non-empty
func NewArgon2Hasher(pepper string) *Argon2Hasher {
	return &Argon2Hasher{pepper: []byte(pepper)}
}

// Hash implements Hasher
func (h *Argon2Hasher) Hash(pin string) string {
	key := argon2.IDKey([]byte(pin), h.pepper, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return hex.EncodeToString(key)
}

// Hasher kinds accepted by New
const (
	KindSHA256 = "sha256"
	KindArgon2 = "argon2"
)

// New returns the hasher for kind; unknown kinds fall back to SHA-256
func New(kind, pepper string) Hasher {
	if kind == KindArgon2 {
		return NewArgon2Hasher(pepper)
	}
	return SHA256Hasher{}
}
