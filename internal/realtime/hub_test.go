// Package realtime - test hub fan-out theo organization.
package realtime

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func receiveEnvelope(t *testing.T, sub *Subscriber) Envelope {
	t.Helper()
	select {
	case message := <-sub.C:
		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			t.Fatalf("message không phải JSON envelope: %v", err)
		}
		return env
	default:
		t.Fatal("subscriber không nhận được message nào")
		return Envelope{}
	}
}

func TestHubPublishReachesOrgSubscribers(t *testing.T) {
	hub := NewHub()
	orgID := primitive.NewObjectID()

	first := hub.Subscribe(orgID.Hex(), 0)
	second := hub.Subscribe(orgID.Hex(), 0)
	defer hub.Unsubscribe(first)
	defer hub.Unsubscribe(second)

	hub.Publish(orgID, EventVideoUploaded, map[string]string{"videoId": "abc"})

	for _, sub := range []*Subscriber{first, second} {
		env := receiveEnvelope(t, sub)
		if env.Event != EventVideoUploaded {
			t.Errorf("event = %q, muốn %q", env.Event, EventVideoUploaded)
		}
	}
}

func TestHubPublishIsolatedByOrganization(t *testing.T) {
	hub := NewHub()
	orgA := primitive.NewObjectID()
	orgB := primitive.NewObjectID()

	subA := hub.Subscribe(orgA.Hex(), 0)
	subB := hub.Subscribe(orgB.Hex(), 0)
	defer hub.Unsubscribe(subA)
	defer hub.Unsubscribe(subB)

	hub.Publish(orgA, EventVideoProcessingProgress, ProgressPayload{VideoID: "v1", Progress: 25})

	if len(subB.C) != 0 {
		t.Error("subscriber của organization khác không được nhận sự kiện")
	}
	env := receiveEnvelope(t, subA)
	if env.Event != EventVideoProcessingProgress {
		t.Errorf("event = %q, muốn %q", env.Event, EventVideoProcessingProgress)
	}
}

func TestHubPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	orgID := primitive.NewObjectID()

	sub := hub.Subscribe(orgID.Hex(), 1)
	defer hub.Unsubscribe(sub)

	// Publish không được block dù subscriber không đọc
	hub.Publish(orgID, EventVideoUploaded, map[string]string{"videoId": "1"})
	hub.Publish(orgID, EventVideoUploaded, map[string]string{"videoId": "2"})
	hub.Publish(orgID, EventVideoUploaded, map[string]string{"videoId": "3"})

	if len(sub.C) != 1 {
		t.Errorf("buffer chỉ giữ 1 message, có %d", len(sub.C))
	}
}

func TestHubUnsubscribeIdempotent(t *testing.T) {
	hub := NewHub()
	orgID := primitive.NewObjectID()

	sub := hub.Subscribe(orgID.Hex(), 0)
	if got := hub.SubscriberCount(orgID.Hex()); got != 1 {
		t.Fatalf("SubscriberCount = %d, muốn 1", got)
	}

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub) // lần hai không được panic

	if got := hub.SubscriberCount(orgID.Hex()); got != 0 {
		t.Errorf("SubscriberCount sau unsubscribe = %d, muốn 0", got)
	}

	// Publish sau khi unsubscribe không được gửi vào channel đã đóng
	hub.Publish(orgID, EventVideoUploaded, nil)

	if _, open := <-sub.C; open {
		t.Error("channel của subscriber phải được đóng sau Unsubscribe")
	}
}

func TestHubZeroOrgPublishIgnored(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(primitive.NilObjectID.Hex(), 0)
	defer hub.Unsubscribe(sub)

	hub.Publish(primitive.NilObjectID, EventVideoUploaded, nil)

	if len(sub.C) != 0 {
		t.Error("Publish với organization rỗng phải bị bỏ qua")
	}
}
