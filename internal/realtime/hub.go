package realtime

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sensistream/internal/logger"
	"sensistream/internal/registry"
)

// DefaultSendBuffer kích thước buffer gửi mặc định của mỗi subscriber
const DefaultSendBuffer = 64

// Subscriber là một client đang lắng nghe sự kiện của một organization.
// C là channel nhận message đã marshal JSON, drop-on-full khi client chậm.
type Subscriber struct {
	C         chan []byte
	orgID     string
	closeOnce sync.Once
}

// room chứa các subscriber của một organization
type room struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

func newRoom() (*room, error) {
	return &room{subs: make(map[*Subscriber]struct{})}, nil
}

// Hub quản lý các room theo organization và fan-out sự kiện.
// Publish không bao giờ block pipeline: subscriber đầy buffer sẽ bị bỏ qua message.
type Hub struct {
	rooms *registry.Registry[*room]
}

var (
	hubInstance *Hub
	hubOnce     sync.Once
)

// GetHub trả về instance duy nhất của Hub (singleton pattern)
func GetHub() *Hub {
	hubOnce.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// NewHub tạo mới một Hub rỗng
func NewHub() *Hub {
	return &Hub{
		rooms: registry.NewRegistry[*room](),
	}
}

// Subscribe đăng ký một subscriber mới vào room của organization
func (h *Hub) Subscribe(orgID string, buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	sub := &Subscriber{
		C:     make(chan []byte, buffer),
		orgID: orgID,
	}

	r, err := h.rooms.GetOrCreate(orgID, newRoom)
	if err != nil {
		// orgID rỗng, subscriber không nhận được gì nhưng vẫn dùng được an toàn
		return sub
	}
	r.mu.Lock()
	r.subs[sub] = struct{}{}
	r.mu.Unlock()
	return sub
}

// Unsubscribe gỡ subscriber khỏi room và đóng channel nhận. Idempotent.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	r, exists := h.rooms.Get(sub.orgID)
	if exists {
		r.mu.Lock()
		delete(r.subs, sub)
		r.mu.Unlock()
	}
	sub.closeOnce.Do(func() {
		close(sub.C)
	})
}

// Publish phát sự kiện tới tất cả subscriber trong room của organization.
// Gửi non-blocking: subscriber đầy buffer bị bỏ qua message này.
func (h *Hub) Publish(orgID primitive.ObjectID, event string, payload interface{}) {
	if orgID.IsZero() {
		return
	}

	message, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"event": event,
			"error": err.Error(),
		}).Error("❌ [REALTIME] Lỗi marshal sự kiện")
		return
	}

	r, exists := h.rooms.Get(orgID.Hex())
	if !exists {
		return
	}

	dropped := 0
	r.mu.RLock()
	for sub := range r.subs {
		select {
		case sub.C <- message:
		default:
			dropped++
		}
	}
	r.mu.RUnlock()

	if dropped > 0 {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"organization_id": orgID.Hex(),
			"event":           event,
			"dropped":         dropped,
		}).Debug("⚠️ [REALTIME] Bỏ qua message cho subscriber chậm")
	}
}

// SubscriberCount trả về số subscriber hiện tại của một organization (dùng cho test và monitoring)
func (h *Hub) SubscriberCount(orgID string) int {
	r, exists := h.rooms.Get(orgID)
	if !exists {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
