package worker

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	authsvc "sensistream/internal/api/auth/service"
	basesvc "sensistream/internal/api/base/service"
	"sensistream/internal/logger"
)

// TokenCleanupWorker worker dọn các token xác thực email / đặt lại mật khẩu đã hết hạn
// Token hết hạn bị unset khỏi user để giữ index gọn và tránh token cũ nằm mãi trong database
type TokenCleanupWorker struct {
	userService *authsvc.UserService
	interval    time.Duration // Khoảng thời gian giữa các lần chạy
}

// NewTokenCleanupWorker tạo mới TokenCleanupWorker
// Tham số:
//   - interval: Khoảng thời gian giữa các lần chạy (mặc định: 1 giờ)
func NewTokenCleanupWorker(interval time.Duration) (*TokenCleanupWorker, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}

	if interval < 1*time.Minute {
		interval = 1 * time.Hour
	}

	return &TokenCleanupWorker{
		userService: userService,
		interval:    interval,
	}, nil
}

// Start bắt đầu background worker dọn token hết hạn
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	log := logger.GetWorkerLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🧹 [TOKEN_CLEANUP] Starting Token Cleanup Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🧹 [TOKEN_CLEANUP] Token Cleanup Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🧹 [TOKEN_CLEANUP] Panic khi dọn token, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				w.cleanupOnce(ctx)
			}()
		}
	}
}

// cleanupOnce unset các token đã quá hạn
func (w *TokenCleanupWorker) cleanupOnce(ctx context.Context) {
	log := logger.GetWorkerLogger()
	now := time.Now().UnixMilli()

	verificationFilter := bson.M{
		"verificationToken":  bson.M{"$exists": true},
		"verificationExpiry": bson.M{"$lt": now},
	}
	verificationUpdate := &basesvc.UpdateData{
		Unset: map[string]interface{}{
			"verificationToken":  "",
			"verificationExpiry": "",
		},
	}
	verificationCount, err := w.userService.UpdateMany(ctx, verificationFilter, verificationUpdate, nil)
	if err != nil {
		log.WithError(err).Error("🧹 [TOKEN_CLEANUP] Failed to cleanup verification tokens")
	}

	resetFilter := bson.M{
		"resetToken":  bson.M{"$exists": true},
		"resetExpiry": bson.M{"$lt": now},
	}
	resetUpdate := &basesvc.UpdateData{
		Unset: map[string]interface{}{
			"resetToken":  "",
			"resetExpiry": "",
		},
	}
	resetCount, err := w.userService.UpdateMany(ctx, resetFilter, resetUpdate, nil)
	if err != nil {
		log.WithError(err).Error("🧹 [TOKEN_CLEANUP] Failed to cleanup reset tokens")
	}

	if verificationCount > 0 || resetCount > 0 {
		log.WithFields(map[string]interface{}{
			"verificationTokens": verificationCount,
			"resetTokens":        resetCount,
		}).Info("🧹 [TOKEN_CLEANUP] Cleaned up expired tokens")
	}
}
