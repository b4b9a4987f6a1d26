// Package utility - test các hàm băm và so sánh mật khẩu.
package utility

import "testing"

func TestHashPasswordDeterministic(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt lỗi: %v", err)
	}
	if len(salt) != 32 {
		t.Errorf("salt hex phải dài 32 ký tự, có %d", len(salt))
	}

	first := HashPassword("Secret123!", salt)
	second := HashPassword("Secret123!", salt)
	if first != second {
		t.Error("hash cùng mật khẩu và salt phải giống nhau")
	}
	if first == HashPassword("Secret123!", "othersalt") {
		t.Error("hash với salt khác phải khác nhau")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt lỗi: %v", err)
	}
	hashed := HashPassword("Secret123!", salt)

	if !VerifyPassword("Secret123!", salt, hashed) {
		t.Error("mật khẩu đúng phải verify thành công")
	}
	if VerifyPassword("WrongPass1!", salt, hashed) {
		t.Error("mật khẩu sai không được verify thành công")
	}
	if VerifyPassword("Secret123!", "othersalt", hashed) {
		t.Error("salt sai không được verify thành công")
	}
}

func TestGenerateSaltUnique(t *testing.T) {
	first, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt lỗi: %v", err)
	}
	second, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt lỗi: %v", err)
	}
	if first == second {
		t.Error("hai salt liên tiếp không được trùng nhau")
	}
}
