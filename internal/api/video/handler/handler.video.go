// Package videohdl - handler HTTP cho domain video.
package videohdl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	authmodels "sensistream/internal/api/auth/models"
	basehdl "sensistream/internal/api/base/handler"
	videodto "sensistream/internal/api/video/dto"
	models "sensistream/internal/api/video/models"
	videosvc "sensistream/internal/api/video/service"
	"sensistream/internal/common"
	"sensistream/internal/global"
	"sensistream/internal/logger"
	"sensistream/internal/processing"
	"sensistream/internal/realtime"
	"sensistream/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoHandler xử lý các request liên quan đến video
type VideoHandler struct {
	*basehdl.BaseHandler[models.VideoAsset, videodto.VideoCreateInput, videodto.VideoUpdateInput]
	videoService *videosvc.VideoService
	pipeline     *processing.Pipeline
	hub          *realtime.Hub
}

// NewVideoHandler tạo instance mới của VideoHandler
func NewVideoHandler() (*VideoHandler, error) {
	videoService, err := videosvc.NewVideoService()
	if err != nil {
		return nil, fmt.Errorf("failed to create video service: %v", err)
	}

	hub := realtime.GetHub()
	stageDelay := time.Duration(global.MongoDB_ServerConfig.ProcessingStageDelayMs) * time.Millisecond
	pipeline := processing.NewPipeline(videoService, hub, nil, stageDelay)

	baseHandler := basehdl.NewBaseHandler[models.VideoAsset, videodto.VideoCreateInput, videodto.VideoUpdateInput](videoService)
	return &VideoHandler{
		BaseHandler:  baseHandler,
		videoService: videoService,
		pipeline:     pipeline,
		hub:          hub,
	}, nil
}

// allowedExtensions trả về map các đuôi file được phép từ config
func allowedExtensions() map[string]bool {
	exts := strings.Split(global.MongoDB_ServerConfig.UploadAllowedExts, ",")
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(strings.TrimSpace(ext))] = true
	}
	return allowed
}

// allowedMimeType kiểm tra Content-Type client gửi lên có khớp một định dạng
// trong danh sách cho phép không (vd "video/mp4" khớp "mp4")
func allowedMimeType(mimeType string) bool {
	mimeType = strings.ToLower(mimeType)
	for ext := range allowedExtensions() {
		if ext != "" && strings.Contains(mimeType, ext) {
			return true
		}
	}
	return false
}

// buildUploadAsset dựng record video cho một file vừa upload xong.
// File đã nằm trên đĩa nên record vào thẳng trạng thái processing với uploadProgress 100.
func buildUploadAsset(title, description, storedName, originalName, storedPath string, size int64, mimeType string, userID, orgID primitive.ObjectID) models.VideoAsset {
	return models.VideoAsset{
		Title:          title,
		Description:    description,
		Filename:       storedName,
		OriginalName:   originalName,
		FilePath:       storedPath,
		FileSize:       size,
		MimeType:       mimeType,
		UserID:         userID,
		OrganizationID: orgID,
		Status:         models.StatusProcessing,
		UploadProgress: 100,
		FlaggedReasons: []string{},
	}
}

// requestIdentity lấy user id, role và organization id từ context
func requestIdentity(c fiber.Ctx) (userID primitive.ObjectID, role string, orgID primitive.ObjectID, err error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok || userIDStr == "" {
		return userID, "", orgID, common.ErrTokenMissing
	}
	userID, err = primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return userID, "", orgID, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err)
	}
	role, _ = c.Locals("user_role").(string)

	orgIDStr, ok := c.Locals("organization_id").(string)
	if !ok || orgIDStr == "" {
		return userID, role, orgID, common.NewError(common.ErrCodeAuthRole, "Không có organization context", common.StatusUnauthorized, nil)
	}
	orgID, err = primitive.ObjectIDFromHex(orgIDStr)
	if err != nil {
		return userID, role, orgID, common.NewError(common.ErrCodeValidationFormat, "Invalid organization ID", common.StatusBadRequest, err)
	}
	return userID, role, orgID, nil
}

// HandleUpload xử lý upload video qua multipart form (field "video").
// File được lưu dưới tên uuid trong thư mục upload, record được tạo và pipeline xử lý được khởi chạy.
func (h *VideoHandler) HandleUpload(c fiber.Ctx) error {
	userID, _, orgID, err := requestIdentity(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	file, err := c.FormFile("video")
	if err != nil {
		h.HandleResponse(c, nil, common.ErrFileMissing)
		return nil
	}

	maxSize := int64(global.MongoDB_ServerConfig.UploadMaxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		h.HandleResponse(c, nil, common.ErrFileTooLarge)
		return nil
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !allowedExtensions()[ext] {
		h.HandleResponse(c, nil, common.ErrUnsupportedFormat)
		return nil
	}
	mimeType := file.Header.Get("Content-Type")
	if !allowedMimeType(mimeType) {
		h.HandleResponse(c, nil, common.ErrUnsupportedFormat)
		return nil
	}

	uploadDir := global.MongoDB_ServerConfig.UploadDir
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeUpload, "Không thể tạo thư mục upload", common.StatusInternalServerError, err))
		return nil
	}

	storedName := uuid.New().String() + "." + ext
	storedPath := filepath.Join(uploadDir, storedName)
	if err := c.SaveFile(file, storedPath); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeUpload, "Không thể lưu file video", common.StatusInternalServerError, err))
		return nil
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = file.Filename
	}

	video := buildUploadAsset(title, strings.TrimSpace(c.FormValue("description")), storedName, file.Filename, storedPath, file.Size, mimeType, userID, orgID)

	createdVideo, err := h.videoService.InsertOne(c.Context(), video)
	if err != nil {
		// Record không tạo được thì file vừa lưu thành rác, dọn luôn
		if removeErr := os.Remove(storedPath); removeErr != nil {
			logrus.WithError(removeErr).Warn("⚠️ [VIDEO] Không thể dọn file sau khi insert thất bại")
		}
		h.HandleResponse(c, nil, err)
		return nil
	}

	h.hub.Publish(orgID, realtime.EventVideoUploaded, createdVideo)
	h.pipeline.Dispatch(createdVideo.ID)
	logger.LogVideo("upload", createdVideo.ID.Hex(), c, map[string]interface{}{"size": file.Size})

	logrus.WithFields(logrus.Fields{
		"video_id":        createdVideo.ID.Hex(),
		"user_id":         userID.Hex(),
		"organization_id": orgID.Hex(),
		"size":            file.Size,
	}).Info("📹 [VIDEO] Upload thành công, pipeline đã khởi chạy")

	basehdl.JSONResponse(c, common.StatusCreated, fiber.Map{
		"code":    common.StatusCreated,
		"message": common.MsgCreated,
		"data":    createdVideo,
		"status":  "success",
	})
	return nil
}

// HandleList trả về danh sách video phân trang.
// Viewer chỉ thấy video của mình, admin/editor thấy toàn bộ video của organization.
func (h *VideoHandler) HandleList(c fiber.Ctx) error {
	userID, role, orgID, err := requestIdentity(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	var query videodto.ListQuery
	if err := c.Bind().Query(&query); err != nil {
		h.HandleResponse(c, nil, common.ErrInvalidFormat)
		return nil
	}
	if err := h.ValidateInput(&query); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	result, err := h.videoService.ListVideos(c.Context(), orgID, userID, role, &query)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleGetByID trả về một video theo id, phạm vi organization.
// Viewer chỉ xem được video của chính mình.
func (h *VideoHandler) HandleGetByID(c fiber.Ctx) error {
	userID, role, orgID, err := requestIdentity(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	videoID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid video ID", common.StatusBadRequest, err))
		return nil
	}

	video, err := h.videoService.FindByID(c.Context(), videoID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if video.OrganizationID != orgID {
		h.HandleResponse(c, nil, common.ErrNotFound)
		return nil
	}
	if role == authmodels.RoleViewer && video.UserID != userID {
		h.HandleResponse(c, nil, common.ErrRoleDenied)
		return nil
	}

	h.HandleResponse(c, video, nil)
	return nil
}

// HandleUpdateStatus đổi trạng thái video (moderation, admin/editor).
// Trạng thái mới phải nằm trong tập moderation và sự kiện được phát cho organization.
func (h *VideoHandler) HandleUpdateStatus(c fiber.Ctx) error {
	_, _, orgID, err := requestIdentity(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	videoID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid video ID", common.StatusBadRequest, err))
		return nil
	}

	var input videodto.UpdateStatusInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if !models.IsModerationStatus(input.Status) {
		h.HandleResponse(c, nil, common.ErrInvalidState)
		return nil
	}

	video, err := h.videoService.FindByID(c.Context(), videoID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if video.OrganizationID != orgID {
		h.HandleResponse(c, nil, common.ErrNotFound)
		return nil
	}

	updatedVideo, err := h.videoService.UpdateFields(c.Context(), videoID, map[string]interface{}{
		"status": input.Status,
	})
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	h.hub.Publish(orgID, realtime.EventVideoStatusUpdated, realtime.StatusUpdatedPayload{
		VideoID: videoID.Hex(),
		Status:  input.Status,
	})
	logger.LogVideo("status_change", videoID.Hex(), c, map[string]interface{}{"status": input.Status})

	h.HandleResponse(c, updatedVideo, nil)
	return nil
}

// HandleDelete xóa video (admin/editor): xóa record, xóa file và phát sự kiện
func (h *VideoHandler) HandleDelete(c fiber.Ctx) error {
	_, _, orgID, err := requestIdentity(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	videoID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid video ID", common.StatusBadRequest, err))
		return nil
	}

	video, err := h.videoService.FindByID(c.Context(), videoID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if video.OrganizationID != orgID {
		h.HandleResponse(c, nil, common.ErrNotFound)
		return nil
	}

	if err := h.videoService.DeleteWithFile(c.Context(), &video); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	h.hub.Publish(orgID, realtime.EventVideoDeleted, realtime.DeletedPayload{
		VideoID: videoID.Hex(),
	})
	logger.LogVideo("delete", videoID.Hex(), c, nil)

	h.HandleResponse(c, nil, nil)
	return nil
}

// HandleStats trả về thống kê video của organization hiện tại
func (h *VideoHandler) HandleStats(c fiber.Ctx) error {
	_, _, orgID, err := requestIdentity(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	stats, err := h.videoService.StatsOverview(c.Context(), orgID)
	if err == nil {
		logrus.WithFields(logrus.Fields{
			"organization_id": orgID.Hex(),
			"total":           stats.Total,
			"storage":         utility.FormatBytes(uint64(stats.StorageBytes)),
		}).Debug("📊 [VIDEO] Thống kê video của organization")
	}
	h.HandleResponse(c, stats, err)
	return nil
}
