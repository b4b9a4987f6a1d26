// Package models - model video thuộc domain video.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của một video trong hệ thống.
// uploading/processing là trạng thái trung gian của pipeline.
// safe/flagged do pipeline quyết định, approved/rejected do moderator quyết định.
const (
	StatusUploading  = "uploading"
	StatusProcessing = "processing"
	StatusSafe       = "safe"
	StatusFlagged    = "flagged"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// ValidStatuses danh sách các trạng thái hợp lệ của video
var ValidStatuses = []string{
	StatusUploading,
	StatusProcessing,
	StatusSafe,
	StatusFlagged,
	StatusApproved,
	StatusRejected,
}

// ModerationStatuses các trạng thái moderator được phép đặt qua route đổi trạng thái
var ModerationStatuses = []string{
	StatusApproved,
	StatusRejected,
	StatusSafe,
	StatusFlagged,
}

// VideoMetadata chứa thông tin kỹ thuật của video (mô phỏng, không decode file thật)
type VideoMetadata struct {
	Width   int    `json:"width,omitempty" bson:"width,omitempty"`
	Height  int    `json:"height,omitempty" bson:"height,omitempty"`
	Codec   string `json:"codec,omitempty" bson:"codec,omitempty"`
	Bitrate int    `json:"bitrate,omitempty" bson:"bitrate,omitempty"`
}

// VideoAsset định nghĩa mô hình video đã upload.
// Mỗi video thuộc về một user và một organization, mọi truy vấn đều được lọc theo organizationId.
type VideoAsset struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title" index:"single:1"`
	Description        string             `json:"description,omitempty" bson:"description,omitempty"`
	Filename           string             `json:"filename" bson:"filename"`
	OriginalName       string             `json:"originalName" bson:"originalName"`
	FilePath           string             `json:"-" bson:"filePath"`
	FileSize           int64              `json:"fileSize" bson:"fileSize"`
	Duration           float64            `json:"duration,omitempty" bson:"duration,omitempty"`
	MimeType           string             `json:"mimeType" bson:"mimeType"`
	ThumbnailURL       string             `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	UserID             primitive.ObjectID `json:"userId" bson:"userId" index:"single:1"`
	OrganizationID     primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1"`
	Status             string             `json:"status" bson:"status" index:"single:1" default:"uploading"`
	SensitivityScore   int                `json:"sensitivityScore" bson:"sensitivityScore"`
	FlaggedReasons     []string           `json:"flaggedReasons" bson:"flaggedReasons"`
	UploadProgress     int                `json:"uploadProgress" bson:"uploadProgress"`
	ProcessingProgress int                `json:"processingProgress" bson:"processingProgress"`
	Metadata           VideoMetadata      `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt          int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt          int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsModerationStatus kiểm tra status có nằm trong danh sách moderator được phép đặt không
func IsModerationStatus(status string) bool {
	for _, s := range ModerationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
