package auth

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the input limit of bcrypt.
const maxPasswordBytes = 72

// Hash returns the bcrypt hash of password. Input longer than 72 bytes is
// truncated on a UTF-8 boundary first, so two passwords that share their
// first 72 bytes hash the same.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(truncate(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored bcrypt hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(truncate(password))) == nil
}

func truncate(password string) string {
	if len(password) <= maxPasswordBytes {
		return password
	}
	cut := maxPasswordBytes
	for cut > 0 && !utf8.RuneStart(password[cut]) {
		cut--
	}
	return password[:cut]
}
