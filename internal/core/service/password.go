package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// PasswordHasher wraps bcrypt with the panel's write-skip semantics: hashing
// an empty or whitespace-only plaintext is a no-op, so an unrelated profile
// update can never accidentally rehash an already-hashed value.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash salts and hashes plain. Empty or whitespace-only input returns the
// empty string with no error.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. A missing hash fails closed.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
