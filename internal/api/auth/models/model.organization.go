// Package models - Organization thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization đại diện một tổ chức (tenant) trong hệ thống.
// Mỗi user thuộc đúng một organization, dữ liệu video được phân vùng theo organization.
type Organization struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"single:1"`
	Code      string             `json:"code" bson:"code" index:"unique"`
	IsActive  bool               `json:"isActive" bson:"isActive" index:"single:1" default:"true"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
