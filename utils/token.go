package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims adalah isi access token yang dikeluarkan backend sekolah
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken membuat access token HS256 (flag -issue-token untuk development lokal)
func GenerateToken(subject, role, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Issuer:    "school-analytics-dashboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken memverifikasi tanda tangan dan masa berlaku token
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// CredentialIdentity mengembalikan identitas credential dari hash token utuh.
// Claim di dalam token tidak dipercaya di sini, token kosong menghasilkan identitas kosong.
func CredentialIdentity(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return "tok:" + hex.EncodeToString(sum[:])
}

// SubjectIdentity dipakai hanya untuk claims yang sudah lolos ValidateToken,
// sehingga token baru milik user yang sama tidak memicu fetch ulang.
func SubjectIdentity(claims *Claims) string {
	if claims == nil || claims.Subject == "" {
		return ""
	}
	return "sub:" + claims.Subject
}
