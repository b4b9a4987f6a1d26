package utility

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// GenerateSalt tạo salt ngẫu nhiên cho việc băm mật khẩu
func GenerateSalt() (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

// HashPassword băm mật khẩu với salt bằng SHA-256
func HashPassword(password string, salt string) string {
	hash := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(hash[:])
}

// VerifyPassword so sánh mật khẩu với hash đã lưu (constant-time)
func VerifyPassword(password string, salt string, hashed string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hashed)) == 1
}
