package worker

import (
	"context"
	"time"

	"sensistream/config"
	"sensistream/internal/logger"
	"sensistream/internal/mailer"
)

// MailDispatchWorker worker gửi email từ delivery queue
// Chạy định kỳ, lấy các item pending đã đến hạn và gửi qua SMTP
type MailDispatchWorker struct {
	queue     *mailer.Queue
	sender    *mailer.Sender
	interval  time.Duration // Khoảng thời gian giữa các lần chạy
	batchSize int           // Số email tối đa mỗi lần chạy
}

// NewMailDispatchWorker tạo mới MailDispatchWorker
// Tham số:
//   - cfg: Cấu hình ứng dụng (thông tin SMTP)
//   - interval: Khoảng thời gian giữa các lần chạy (mặc định: 15 giây)
//   - batchSize: Số email tối đa mỗi lần chạy (mặc định: 20)
func NewMailDispatchWorker(cfg *config.Configuration, interval time.Duration, batchSize int) (*MailDispatchWorker, error) {
	queue, err := mailer.NewQueue()
	if err != nil {
		return nil, err
	}

	if interval < 5*time.Second {
		interval = 15 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 20
	}

	return &MailDispatchWorker{
		queue:     queue,
		sender:    mailer.NewSender(cfg),
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// Start bắt đầu background worker gửi email
// Worker chạy định kỳ theo interval cho tới khi context bị cancel
func (w *MailDispatchWorker) Start(ctx context.Context) {
	log := logger.GetWorkerLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("📧 [MAIL_DISPATCH] Starting Mail Dispatch Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("📧 [MAIL_DISPATCH] Mail Dispatch Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("📧 [MAIL_DISPATCH] Panic khi gửi email, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				w.dispatchOnce(ctx)
			}()
		}
	}
}

// dispatchOnce lấy một batch item đến hạn và gửi lần lượt
func (w *MailDispatchWorker) dispatchOnce(ctx context.Context) {
	log := logger.GetWorkerLogger()

	items, err := w.queue.DequeueDue(ctx, w.batchSize)
	if err != nil {
		log.WithError(err).Error("📧 [MAIL_DISPATCH] Failed to dequeue mail items")
		return
	}
	if len(items) == 0 {
		// Không có email đến hạn, không log (giảm log noise)
		return
	}

	sent := 0
	failed := 0
	for _, item := range items {
		if err := w.sender.Send(item); err != nil {
			failed++
			if markErr := w.queue.MarkFailed(ctx, item, err); markErr != nil {
				log.WithError(markErr).Error("📧 [MAIL_DISPATCH] Failed to mark item as failed")
			}
			continue
		}
		sent++
		if markErr := w.queue.MarkSent(ctx, item.ID); markErr != nil {
			log.WithError(markErr).Error("📧 [MAIL_DISPATCH] Failed to mark item as sent")
		}
	}

	log.WithFields(map[string]interface{}{
		"sent":   sent,
		"failed": failed,
	}).Info("📧 [MAIL_DISPATCH] Dispatched mail batch")
}
