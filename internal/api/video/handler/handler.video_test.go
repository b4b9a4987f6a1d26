// Package videohdl - test các bước kiểm tra file upload và record video được tạo.
package videohdl

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sensistream/config"
	models "sensistream/internal/api/video/models"
	"sensistream/internal/global"
)

func setUploadConfig(t *testing.T, allowedExts string) {
	t.Helper()
	prev := global.MongoDB_ServerConfig
	global.MongoDB_ServerConfig = &config.Configuration{UploadAllowedExts: allowedExts}
	t.Cleanup(func() { global.MongoDB_ServerConfig = prev })
}

func TestBuildUploadAssetStartsProcessing(t *testing.T) {
	userID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()

	video := buildUploadAsset("demo", "mô tả", "abc.mp4", "demo.mp4", "./uploads/abc.mp4", 1024, "video/mp4", userID, orgID)

	// File đã nằm trên đĩa trước khi insert nên record vào thẳng processing
	if video.Status != models.StatusProcessing {
		t.Errorf("status = %q, muốn %q", video.Status, models.StatusProcessing)
	}
	if video.UploadProgress != 100 {
		t.Errorf("uploadProgress = %d, muốn 100", video.UploadProgress)
	}
	if video.FlaggedReasons == nil {
		t.Error("flaggedReasons phải là slice rỗng, không được nil")
	}
	if video.UserID != userID || video.OrganizationID != orgID {
		t.Errorf("owner sai: userId %s, organizationId %s", video.UserID.Hex(), video.OrganizationID.Hex())
	}
	if video.MimeType != "video/mp4" || video.FileSize != 1024 {
		t.Errorf("file info sai: mimeType %q, fileSize %d", video.MimeType, video.FileSize)
	}
}

func TestAllowedMimeType(t *testing.T) {
	setUploadConfig(t, "mp4,avi,mov,wmv,flv,mkv")

	cases := []struct {
		mime string
		want bool
	}{
		{"video/mp4", true},
		{"VIDEO/MP4", true},
		{"video/quicktime; codecs=mov", true},
		{"video/x-matroska-mkv", true},
		{"application/octet-stream", false},
		{"text/html", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := allowedMimeType(tc.mime); got != tc.want {
			t.Errorf("allowedMimeType(%q) = %v, muốn %v", tc.mime, got, tc.want)
		}
	}
}

func TestAllowedExtensions(t *testing.T) {
	setUploadConfig(t, "mp4, MOV ,mkv")

	allowed := allowedExtensions()
	for _, ext := range []string{"mp4", "mov", "mkv"} {
		if !allowed[ext] {
			t.Errorf("đuôi %q phải được phép", ext)
		}
	}
	if allowed["exe"] {
		t.Error("đuôi exe không được phép")
	}
}
