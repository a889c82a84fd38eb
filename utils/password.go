package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword membuat hash bcrypt untuk password operator (OPS_PASSWORD_HASH)
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash membandingkan password dari basic auth dengan hash di konfigurasi.
// Hash kosong selalu ditolak.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
