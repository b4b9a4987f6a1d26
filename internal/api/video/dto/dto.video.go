// Package videodto - các DTO cho domain video.
package videodto

// UploadInput các field text đi kèm file trong form upload.
// Title mặc định là tên file gốc nếu bỏ trống.
type UploadInput struct {
	Title       string `json:"title" form:"title" validate:"omitempty" maxLength:"200"`
	Description string `json:"description" form:"description" validate:"omitempty" maxLength:"2000"`
}

// ListQuery query param cho danh sách video.
type ListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=uploading processing safe flagged approved rejected"`
	Search string `query:"search" validate:"omitempty" maxLength:"200"`
	Page   int64  `query:"page"`
	Limit  int64  `query:"limit"`
}

// UpdateStatusInput đầu vào đổi trạng thái video (moderation).
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=approved rejected safe flagged"`
}

// VideoCreateInput đầu vào tạo video qua route CRUD (admin tooling).
type VideoCreateInput struct {
	Title          string `json:"title" validate:"required" maxLength:"200"`
	Description    string `json:"description" validate:"omitempty" maxLength:"2000"`
	Filename       string `json:"filename" validate:"required"`
	OriginalName   string `json:"originalName" validate:"omitempty"`
	MimeType       string `json:"mimeType" validate:"omitempty"`
	FileSize       int64  `json:"fileSize" validate:"omitempty"`
	UserID         string `json:"userId" validate:"omitempty" transform:"str_objectid,map=UserID,optional"`
	OrganizationID string `json:"organizationId" validate:"omitempty" transform:"str_objectid,map=OrganizationID,optional"`
}

// VideoUpdateInput đầu vào cập nhật video qua route CRUD (admin tooling).
type VideoUpdateInput struct {
	Title       string `json:"title" validate:"omitempty" maxLength:"200"`
	Description string `json:"description" validate:"omitempty" maxLength:"2000"`
	Status      string `json:"status" validate:"omitempty,oneof=uploading processing safe flagged approved rejected"`
}

// StatsOverview thống kê video của một organization.
type StatsOverview struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"byStatus"`
	StorageBytes int64            `json:"storageBytes"`
}
