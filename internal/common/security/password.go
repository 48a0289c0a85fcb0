package security

import (
	"golang.org/x/crypto/bcrypt"
)

var hashCost = bcrypt.DefaultCost

// InitHasher sets the bcrypt work factor. Out-of-range values fall back to
// the bcrypt default.
func InitHasher(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashCost = cost
}

// HashPassword hashes the plain text password using bcrypt. The output
// differs on every call (random salt) but always verifies.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPasswordHash compares a plain password against a bcrypt digest.
// Mismatch and malformed digests both report false, never an error.
func CheckPasswordHash(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
