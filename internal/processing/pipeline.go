package processing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "sensistream/internal/api/video/models"
	"sensistream/internal/logger"
	"sensistream/internal/realtime"
)

// Store là phần của video service mà pipeline cần: đọc video và ghi từng phần
type Store interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.VideoAsset, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (models.VideoAsset, error)
}

// Broadcaster phát sự kiện realtime tới room của một organization
type Broadcaster interface {
	Publish(orgID primitive.ObjectID, event string, payload interface{})
}

// DefaultStageDelay độ trễ mô phỏng mặc định giữa các giai đoạn
const DefaultStageDelay = 2 * time.Second

// Pipeline điều phối việc xử lý video: chạy các giai đoạn theo thứ tự,
// chấm điểm độ nhạy cảm ở giai đoạn phân tích và phát tiến độ cho organization sở hữu.
type Pipeline struct {
	store       Store
	broadcaster Broadcaster
	classifier  Classifier
	stageDelay  time.Duration
}

// NewPipeline tạo pipeline với các phụ thuộc được inject.
// stageDelay <= 0 dùng DefaultStageDelay, classifier nil dùng RandomClassifier mặc định.
func NewPipeline(store Store, broadcaster Broadcaster, classifier Classifier, stageDelay time.Duration) *Pipeline {
	if stageDelay <= 0 {
		stageDelay = DefaultStageDelay
	}
	if classifier == nil {
		classifier = NewRandomClassifier(nil)
	}
	return &Pipeline{
		store:       store,
		broadcaster: broadcaster,
		classifier:  classifier,
		stageDelay:  stageDelay,
	}
}

// Dispatch khởi chạy xử lý cho một video, fire-and-forget.
// Mỗi video chạy trong một goroutine riêng, panic được recover.
// Gọi Dispatch hai lần cho cùng một id sẽ chạy hai lần, caller chịu trách nhiệm không gọi trùng.
func (p *Pipeline) Dispatch(videoID primitive.ObjectID) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.GetAppLogger().WithFields(logrus.Fields{
					"video_id": videoID.Hex(),
					"panic":    fmt.Sprintf("%v", r),
				}).Error("❌ [PIPELINE] Panic trong quá trình xử lý video")
			}
		}()
		p.Run(context.Background(), videoID)
	}()
}

// Run chạy toàn bộ pipeline cho một video. Blocking, cancellable qua context.
func (p *Pipeline) Run(ctx context.Context, videoID primitive.ObjectID) {
	log := logger.GetAppLogger()

	video, err := p.store.FindByID(ctx, videoID)
	if err != nil {
		// Không biết organization sở hữu nên không có room để phát lỗi
		log.WithFields(logrus.Fields{
			"video_id": videoID.Hex(),
			"error":    err.Error(),
		}).Error("❌ [PIPELINE] Không tìm thấy video cần xử lý")
		return
	}
	orgID := video.OrganizationID

	log.WithFields(logrus.Fields{
		"video_id":        videoID.Hex(),
		"organization_id": orgID.Hex(),
	}).Info("🎬 [PIPELINE] Bắt đầu xử lý video")

	var verdict Verdict
	for _, stage := range Stages() {
		if err := p.wait(ctx); err != nil {
			p.fail(ctx, videoID, orgID, err)
			return
		}

		fields := map[string]interface{}{
			"processingProgress": stage.Progress,
			"status":             models.StatusProcessing,
		}
		// Kết quả các giai đoạn đều là mô phỏng, không decode file thật
		switch stage.Progress {
		case 25:
			fields["metadata"] = models.VideoMetadata{
				Width:   1920,
				Height:  1080,
				Codec:   "h264",
				Bitrate: 5000000,
			}
		case 75:
			fields["thumbnailUrl"] = "/thumbnails/" + videoID.Hex() + ".jpg"
		}

		if _, err := p.store.UpdateFields(ctx, videoID, fields); err != nil {
			p.fail(ctx, videoID, orgID, err)
			return
		}

		p.broadcaster.Publish(orgID, realtime.EventVideoProcessingProgress, realtime.ProgressPayload{
			VideoID:  videoID.Hex(),
			Progress: stage.Progress,
			Message:  stage.Label,
		})

		if stage.Progress == AnalysisProgress {
			verdict = p.classifier.Classify(video)
		}
	}

	if _, err := p.store.UpdateFields(ctx, videoID, map[string]interface{}{
		"status":             verdict.Status,
		"sensitivityScore":   verdict.Score,
		"flaggedReasons":     verdict.FlaggedReasons,
		"processingProgress": 100,
	}); err != nil {
		p.fail(ctx, videoID, orgID, err)
		return
	}

	p.broadcaster.Publish(orgID, realtime.EventVideoProcessingComplete, realtime.CompletePayload{
		VideoID:          videoID.Hex(),
		Status:           verdict.Status,
		SensitivityScore: verdict.Score,
		FlaggedReasons:   verdict.FlaggedReasons,
	})

	log.WithFields(logrus.Fields{
		"video_id": videoID.Hex(),
		"status":   verdict.Status,
		"score":    verdict.Score,
	}).Info("✅ [PIPELINE] Xử lý video hoàn tất")
}

// wait chờ hết độ trễ mô phỏng của một giai đoạn, tôn trọng context cancel
func (p *Pipeline) wait(ctx context.Context) error {
	timer := time.NewTimer(p.stageDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fail xử lý đường lỗi: best-effort đánh dấu video flagged và phát sự kiện lỗi
// tới đúng organization sở hữu, không phát toàn cục.
func (p *Pipeline) fail(ctx context.Context, videoID primitive.ObjectID, orgID primitive.ObjectID, cause error) {
	logger.GetAppLogger().WithFields(logrus.Fields{
		"video_id": videoID.Hex(),
		"error":    cause.Error(),
	}).Error("❌ [PIPELINE] Xử lý video thất bại")

	// Ghi trạng thái lỗi với context mới, context cũ có thể đã bị cancel
	persistCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := p.store.UpdateFields(persistCtx, videoID, map[string]interface{}{
		"status":         models.StatusFlagged,
		"flaggedReasons": []string{"Processing error occurred"},
	}); err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"video_id": videoID.Hex(),
			"error":    err.Error(),
		}).Error("❌ [PIPELINE] Không thể ghi trạng thái lỗi cho video")
	}

	p.broadcaster.Publish(orgID, realtime.EventVideoProcessingError, realtime.ErrorPayload{
		VideoID: videoID.Hex(),
		Error:   "Processing error occurred",
	})
}
