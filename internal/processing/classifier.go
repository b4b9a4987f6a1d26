package processing

import (
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	models "sensistream/internal/api/video/models"
	"sensistream/internal/logger"
)

// Verdict là kết quả phân loại độ nhạy cảm của một video
type Verdict struct {
	Score          int
	Status         string // safe | flagged
	FlaggedReasons []string
}

// Classifier chấm điểm độ nhạy cảm của một video
type Classifier interface {
	Classify(video models.VideoAsset) Verdict
}

// RandomClassifier là classifier giả lập dùng nguồn ngẫu nhiên.
// Nguồn ngẫu nhiên được inject để test có thể ép kết quả xác định.
type RandomClassifier struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewRandomClassifier tạo classifier với nguồn ngẫu nhiên cho trước.
// Truyền nil để dùng nguồn mặc định của package math/rand.
func NewRandomClassifier(r *rand.Rand) *RandomClassifier {
	return &RandomClassifier{rand: r}
}

func (c *RandomClassifier) float64() float64 {
	if c.rand == nil {
		return rand.Float64()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rand.Float64()
}

// Classify chấm điểm ngẫu nhiên nguyên trong [0, 100) và tích lũy lý do theo ngưỡng.
// Video bị gắn cờ khi điểm vượt 70, ngược lại là safe và lý do bị xóa sạch.
func (c *RandomClassifier) Classify(video models.VideoAsset) Verdict {
	logger.GetAppLogger().WithFields(logrus.Fields{
		"video_id": video.ID.Hex(),
		"title":    video.Title,
	}).Debug("🔍 [CLASSIFIER] Phân tích độ nhạy cảm của video")

	score := int(c.float64() * 100)

	reasons := make([]string, 0)
	if score > 70 {
		reasons = append(reasons, "High sensitivity content detected")
	}
	if score > 50 {
		reasons = append(reasons, "Potential inappropriate language")
	}
	if score > 80 {
		reasons = append(reasons, "Explicit content detected")
	}
	if c.float64() > 0.7 {
		reasons = append(reasons, "Violence or graphic content")
	}
	if c.float64() > 0.8 {
		reasons = append(reasons, "Copyright material detected")
	}

	status := models.StatusSafe
	if score > 70 {
		status = models.StatusFlagged
	}
	if status == models.StatusSafe {
		reasons = []string{}
	}

	return Verdict{
		Score:          score,
		Status:         status,
		FlaggedReasons: reasons,
	}
}
