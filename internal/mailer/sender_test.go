// Package mailer - test nội dung các email hệ thống.
package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildVerificationEmail(t *testing.T) {
	subject, body := BuildVerificationEmail("Minh", "https://app.example.com/verify?token=abc123")

	assert.NotEmpty(t, subject)
	assert.Contains(t, body, "Minh", "body phải chứa tên người nhận")
	assert.Contains(t, body, "https://app.example.com/verify?token=abc123", "body phải chứa liên kết xác thực")
	assert.Contains(t, body, "24 giờ", "body phải nêu hạn của liên kết")
}

func TestBuildPasswordResetEmail(t *testing.T) {
	subject, body := BuildPasswordResetEmail("Minh", "https://app.example.com/reset?token=xyz")

	assert.Contains(t, subject, "mật khẩu")
	assert.Contains(t, body, "https://app.example.com/reset?token=xyz", "body phải chứa liên kết đặt lại mật khẩu")
	assert.Contains(t, body, "1 giờ", "body phải nêu hạn của liên kết")
}

func TestBuildWelcomeEmail(t *testing.T) {
	_, body := BuildWelcomeEmail("Minh", "https://app.example.com/dashboard")

	assert.Contains(t, body, "Minh", "body phải chứa tên người nhận")
	assert.Contains(t, body, "https://app.example.com/dashboard", "body phải chứa liên kết vào trang quản lý")
}
