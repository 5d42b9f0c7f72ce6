package service

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword produces a salted bcrypt digest; each call salts fresh, so
// the same input never yields the same digest twice.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored digest. A
// mismatch is not an error, just false.
func CheckPassword(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
