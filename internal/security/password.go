package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost 10 keeps login latency acceptable while staying above the
// library minimum
const passwordHashCost = 10

// HashPassword returns the salted bcrypt hash of a plaintext password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
