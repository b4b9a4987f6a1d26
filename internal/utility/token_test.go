// Package utility - test tạo và giải mã JWT token.
package utility

import (
	"errors"
	"testing"

	"sensistream/internal/common"
)

func TestCreateAndParseToken(t *testing.T) {
	tokenMap, err := CreateToken("test-secret", "user-1", "18f2a3", "42")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}
	tokenString := tokenMap["token"]
	if tokenString == "" {
		t.Fatal("CreateToken phải trả về token trong map")
	}

	claims, err := ParseToken("test-secret", tokenString)
	if err != nil {
		t.Fatalf("ParseToken lỗi: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, muốn %q", claims.UserID, "user-1")
	}
	if claims.Time != "18f2a3" || claims.RandomNumber != "42" {
		t.Errorf("claims sai: %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenMap, err := CreateToken("test-secret", "user-1", "18f2a3", "42")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}

	_, err = ParseToken("other-secret", tokenMap["token"])
	if !errors.Is(err, common.ErrTokenInvalid) {
		t.Errorf("sai secret phải trả về ErrTokenInvalid, có: %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("test-secret", "not-a-jwt")
	if !errors.Is(err, common.ErrTokenInvalid) {
		t.Errorf("token rác phải trả về ErrTokenInvalid, có: %v", err)
	}
}
