package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 10

// Hasher produces and verifies one-way salted password hashes. The cost
// factor is fixed configuration, never user input.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher; a non-positive cost falls back to the
// default.
func NewHasher(cost int) Hasher {
	if cost <= 0 {
		cost = defaultBcryptCost
	}
	return Hasher{cost: cost}
}

// Hash hashes a plaintext password using bcrypt.
func (h Hasher) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares a plaintext password with a stored hash. It reports
// only match/mismatch; the caller decides what to reveal.
func (h Hasher) Verify(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
