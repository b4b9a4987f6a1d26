// Package mailer - hàng đợi gửi email (delivery queue) và SMTP sender.
package mailer

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của một item trong delivery queue
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusSent       = "sent"
	StatusFailed     = "failed"
)

// Các loại email hệ thống gửi đi
const (
	KindVerification  = "verification"
	KindWelcome       = "welcome"
	KindPasswordReset = "password_reset"
)

// DeliveryQueueItem là một email đang chờ gửi trong hàng đợi.
// Worker MailDispatchWorker poll các item pending đến hạn (nextAttemptAt) và gửi qua SMTP.
// Gửi lỗi sẽ retry tối đa MaxRetries lần với backoff lũy thừa.
type DeliveryQueueItem struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Kind          string             `json:"kind" bson:"kind" index:"single:1"`
	Recipient     string             `json:"recipient" bson:"recipient" index:"single:1"`
	Subject       string             `json:"subject" bson:"subject"`
	Body          string             `json:"body" bson:"body"`
	Status        string             `json:"status" bson:"status" index:"single:1" default:"pending"`
	RetryCount    int                `json:"retryCount" bson:"retryCount"`
	MaxRetries    int                `json:"maxRetries" bson:"maxRetries" default:"3"`
	NextAttemptAt int64              `json:"nextAttemptAt" bson:"nextAttemptAt" index:"single:1"`
	LastError     string             `json:"lastError,omitempty" bson:"lastError,omitempty"`
	SentAt        int64              `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`
}
