// Package videosvc - service video.
package videosvc

import (
	"context"
	"fmt"
	"os"

	basesvc "sensistream/internal/api/base/service"
	authmodels "sensistream/internal/api/auth/models"
	models "sensistream/internal/api/video/models"
	videodto "sensistream/internal/api/video/dto"
	basemodels "sensistream/internal/api/base/models"
	"sensistream/internal/common"
	"sensistream/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VideoService là cấu trúc chứa các phương thức liên quan đến video
type VideoService struct {
	*basesvc.BaseServiceMongoImpl[models.VideoAsset]
}

// NewVideoService tạo mới VideoService
func NewVideoService() (*VideoService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Videos)
	if !exist {
		return nil, fmt.Errorf("failed to get videos collection: %v", common.ErrNotFound)
	}

	return &VideoService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.VideoAsset](collection),
	}, nil
}

// FindByID tìm video theo id
func (s *VideoService) FindByID(ctx context.Context, id primitive.ObjectID) (models.VideoAsset, error) {
	return s.BaseServiceMongoImpl.FindOneById(ctx, id)
}

// UpdateFields cập nhật một phần document video ($set các field được truyền).
// Đây là điểm ghi duy nhất của pipeline xử lý, updatedAt được service base tự động gán.
func (s *VideoService) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (models.VideoAsset, error) {
	updateData := &basesvc.UpdateData{Set: fields}
	return s.BaseServiceMongoImpl.UpdateById(ctx, id, updateData)
}

// ListVideos trả về danh sách video phân trang, mới nhất trước.
// Viewer chỉ thấy video của chính mình, admin/editor thấy toàn bộ video của organization.
func (s *VideoService) ListVideos(ctx context.Context, orgID primitive.ObjectID, userID primitive.ObjectID, role string, query *videodto.ListQuery) (*basemodels.PaginateResult[models.VideoAsset], error) {
	filter := bson.M{"organizationId": orgID}
	if role == authmodels.RoleViewer {
		filter["userId"] = userID
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.Search != "" {
		regex := bson.M{"$regex": query.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"title": regex},
			{"description": regex},
		}
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// StatsOverview thống kê video của một organization: tổng số, số lượng theo status và tổng dung lượng.
func (s *VideoService) StatsOverview(ctx context.Context, orgID primitive.ObjectID) (*videodto.StatsOverview, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"organizationId": orgID}},
		{"$group": bson.M{
			"_id":          "$status",
			"count":        bson.M{"$sum": 1},
			"storageBytes": bson.M{"$sum": "$fileSize"},
		}},
	}

	cursor, err := s.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status       string `bson:"_id"`
		Count        int64  `bson:"count"`
		StorageBytes int64  `bson:"storageBytes"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	stats := &videodto.StatsOverview{ByStatus: make(map[string]int64)}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		stats.StorageBytes += row.StorageBytes
	}
	return stats, nil
}

// DeleteWithFile xóa video khỏi database và xóa file trên đĩa.
// Lỗi xóa file chỉ được log, không làm fail thao tác (record đã xóa là nguồn sự thật).
func (s *VideoService) DeleteWithFile(ctx context.Context, video *models.VideoAsset) error {
	if err := s.BaseServiceMongoImpl.DeleteById(ctx, video.ID); err != nil {
		return err
	}

	if video.FilePath != "" {
		if removeErr := os.Remove(video.FilePath); removeErr != nil && !os.IsNotExist(removeErr) {
			logrus.WithFields(logrus.Fields{
				"video_id": video.ID.Hex(),
				"path":     video.FilePath,
				"error":    removeErr.Error(),
			}).Warn("⚠️ [VIDEO] Không thể xóa file video trên đĩa")
		}
	}
	return nil
}
