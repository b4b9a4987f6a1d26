// Package global - test các custom validator.
package global

import "testing"

func TestStrongPasswordValidator(t *testing.T) {
	InitValidator()

	cases := []struct {
		password string
		valid    bool
	}{
		{"Secret123!", true},
		{"secret123!", true}, // lower + number + special = 3 điều kiện
		{"SECRET123!", true},
		{"Secret123", true},
		{"secret123", false}, // chỉ lower + number
		{"short1!", false},   // dưới 8 ký tự
		{"alllowercase", false},
		{"", false},
	}

	for _, tc := range cases {
		err := Validate.Var(tc.password, "strong_password")
		if tc.valid && err != nil {
			t.Errorf("mật khẩu %q phải hợp lệ, lỗi: %v", tc.password, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("mật khẩu %q phải bị từ chối", tc.password)
		}
	}
}

func TestVideoStatusValidator(t *testing.T) {
	InitValidator()

	for _, status := range []string{"uploading", "processing", "safe", "flagged", "approved", "rejected"} {
		if err := Validate.Var(status, "video_status"); err != nil {
			t.Errorf("trạng thái %q phải hợp lệ, lỗi: %v", status, err)
		}
	}
	for _, status := range []string{"", "deleted", "SAFE", "pending"} {
		if err := Validate.Var(status, "video_status"); err == nil {
			t.Errorf("trạng thái %q phải bị từ chối", status)
		}
	}
}

func TestNoXSSValidator(t *testing.T) {
	InitValidator()

	if err := Validate.Var("video hướng dẫn nấu ăn", "no_xss"); err != nil {
		t.Errorf("tiêu đề bình thường phải hợp lệ, lỗi: %v", err)
	}
	for _, value := range []string{"<script>alert(1)</script>", "javascript:void(0)", "<iframe src=x>"} {
		if err := Validate.Var(value, "no_xss"); err == nil {
			t.Errorf("giá trị %q phải bị từ chối", value)
		}
	}
}
