// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các role của người dùng trong hệ thống
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User định nghĩa mô hình người dùng
// Token chứa token xác thực mới nhất của người dùng
// Tokens chứa danh sách các token, mỗi thiết bị khác nhau sẽ có một token riêng để xác thực (bằng hwid)
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Password       string             `json:"-" bson:"password,omitempty"`
	Salt           string             `json:"-" bson:"salt,omitempty"`
	Role           string             `json:"role" bson:"role" index:"single:1" default:"viewer"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1"`
	EmailVerified  bool               `json:"emailVerified" bson:"emailVerified"`
	// VerificationToken token xác thực email, VerificationExpiry là hạn dùng (unix milli)
	VerificationToken  string `json:"-" bson:"verificationToken,omitempty" index:"single:1"`
	VerificationExpiry int64  `json:"-" bson:"verificationExpiry,omitempty"`
	// ResetToken token đặt lại mật khẩu, ResetExpiry là hạn dùng (unix milli)
	ResetToken  string  `json:"-" bson:"resetToken,omitempty" index:"single:1"`
	ResetExpiry int64   `json:"-" bson:"resetExpiry,omitempty"`
	Token       string  `json:"token" bson:"token"`
	Tokens      []Token `json:"-" bson:"tokens"`
	IsBlock     bool    `json:"-" bson:"isBlock"`
	BlockNote   string  `json:"-" bson:"blockNote"`
	CreatedAt   int64   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt" bson:"updatedAt"`
}
