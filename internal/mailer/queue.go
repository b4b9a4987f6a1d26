package mailer

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "sensistream/internal/api/base/service"
	"sensistream/internal/common"
	"sensistream/internal/global"
	"sensistream/internal/logger"
)

// Queue xử lý việc enqueue và dequeue email
type Queue struct {
	queueService *basesvc.BaseServiceMongoImpl[DeliveryQueueItem]
}

// NewQueue tạo mới Queue
func NewQueue() (*Queue, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DeliveryQueue)
	if !exist {
		return nil, fmt.Errorf("failed to get delivery_queue collection: %v", common.ErrNotFound)
	}

	return &Queue{
		queueService: basesvc.NewBaseServiceMongo[DeliveryQueueItem](collection),
	}, nil
}

// Enqueue thêm items vào queue với trạng thái pending
func (q *Queue) Enqueue(ctx context.Context, items []*DeliveryQueueItem) error {
	now := time.Now().UnixMilli()
	log := logger.GetAppLogger()

	for _, item := range items {
		item.Status = StatusPending
		item.RetryCount = 0
		if item.MaxRetries == 0 {
			item.MaxRetries = 3
		}
		item.NextAttemptAt = now
	}

	itemsToInsert := make([]DeliveryQueueItem, len(items))
	for i, item := range items {
		itemsToInsert[i] = *item
	}

	_, err := q.queueService.InsertMany(ctx, itemsToInsert)
	if err != nil {
		log.WithError(err).WithField("totalItems", len(items)).Error("❌ [MAILER] Lỗi insert queue items vào database")
		return err
	}

	log.WithField("totalItems", len(items)).Info("📦 [MAILER] Đã enqueue email vào delivery queue")
	return nil
}

// DequeueDue lấy các item pending đã đến hạn gửi (nextAttemptAt <= now) và chuyển sang processing
func (q *Queue) DequeueDue(ctx context.Context, limit int) ([]*DeliveryQueueItem, error) {
	now := time.Now().UnixMilli()
	filter := bson.M{
		"status":        StatusPending,
		"nextAttemptAt": bson.M{"$lte": now},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "nextAttemptAt", Value: 1}}).
		SetLimit(int64(limit))

	items, err := q.queueService.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	_, err = q.queueService.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		&basesvc.UpdateData{Set: map[string]interface{}{"status": StatusProcessing}},
		nil,
	)
	if err != nil {
		return nil, err
	}

	result := make([]*DeliveryQueueItem, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

// MarkSent đánh dấu item đã gửi thành công
func (q *Queue) MarkSent(ctx context.Context, id primitive.ObjectID) error {
	_, err := q.queueService.UpdateById(ctx, id, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": StatusSent,
			"sentAt": time.Now().UnixMilli(),
		},
	})
	return err
}

// MarkFailed đánh dấu một lần gửi lỗi.
// Nếu còn lượt retry, item quay về pending với backoff lũy thừa (1, 2, 4 phút).
// Hết lượt retry, item chuyển sang failed.
func (q *Queue) MarkFailed(ctx context.Context, item *DeliveryQueueItem, sendErr error) error {
	retryCount := item.RetryCount + 1

	set := map[string]interface{}{
		"retryCount": retryCount,
		"lastError":  sendErr.Error(),
	}

	if retryCount >= item.MaxRetries {
		set["status"] = StatusFailed
	} else {
		backoff := time.Duration(1<<uint(retryCount-1)) * time.Minute
		set["status"] = StatusPending
		set["nextAttemptAt"] = time.Now().Add(backoff).UnixMilli()
	}

	_, err := q.queueService.UpdateById(ctx, item.ID, &basesvc.UpdateData{Set: set})
	return err
}
