package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted, one-way bcrypt digest from plaintext.
// The digest is never reversible.
func HashPassword(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plaintext matches digest. Comparison is
// constant-time internally to bcrypt.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
