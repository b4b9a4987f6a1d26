// Package realtime - hub phát sự kiện realtime theo organization qua websocket.
package realtime

// Tên các sự kiện video phát tới client
const (
	EventVideoUploaded           = "video:uploaded"
	EventVideoProcessingProgress = "video:processing_progress"
	EventVideoProcessingComplete = "video:processing_complete"
	EventVideoProcessingError    = "video:processing_error"
	EventVideoStatusUpdated      = "video:status_updated"
	EventVideoDeleted            = "video:deleted"
)

// Envelope là khung JSON của mọi message gửi qua websocket
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ProgressPayload dữ liệu sự kiện tiến độ xử lý
type ProgressPayload struct {
	VideoID  string `json:"videoId"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
}

// CompletePayload dữ liệu sự kiện xử lý hoàn tất
type CompletePayload struct {
	VideoID          string   `json:"videoId"`
	Status           string   `json:"status"`
	SensitivityScore int      `json:"sensitivityScore"`
	FlaggedReasons   []string `json:"flaggedReasons"`
}

// ErrorPayload dữ liệu sự kiện lỗi xử lý
type ErrorPayload struct {
	VideoID string `json:"videoId"`
	Error   string `json:"error"`
}

// StatusUpdatedPayload dữ liệu sự kiện đổi trạng thái (moderation)
type StatusUpdatedPayload struct {
	VideoID string `json:"videoId"`
	Status  string `json:"status"`
}

// DeletedPayload dữ liệu sự kiện xóa video
type DeletedPayload struct {
	VideoID string `json:"videoId"`
}
