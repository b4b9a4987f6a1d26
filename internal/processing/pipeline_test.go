// Package processing - test pipeline xử lý video với store/broadcaster giả.
package processing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "sensistream/internal/api/video/models"
	"sensistream/internal/realtime"
)

// fakeStore lưu video trong memory, có thể ép lỗi tại lần UpdateFields thứ N
type fakeStore struct {
	mu          sync.Mutex
	videos      map[primitive.ObjectID]models.VideoAsset
	updateCalls int
	failOnCall  int // 0 = không bao giờ lỗi
}

func newFakeStore(videos ...models.VideoAsset) *fakeStore {
	s := &fakeStore{videos: make(map[primitive.ObjectID]models.VideoAsset)}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.VideoAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return models.VideoAsset{}, errors.New("video not found")
	}
	return v, nil
}

func (s *fakeStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (models.VideoAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.failOnCall > 0 && s.updateCalls == s.failOnCall {
		return models.VideoAsset{}, errors.New("write failed")
	}
	v := s.videos[id]
	for key, value := range fields {
		switch key {
		case "status":
			v.Status = value.(string)
		case "processingProgress":
			v.ProcessingProgress = value.(int)
		case "sensitivityScore":
			v.SensitivityScore = value.(int)
		case "flaggedReasons":
			v.FlaggedReasons = value.([]string)
		case "thumbnailUrl":
			v.ThumbnailURL = value.(string)
		case "metadata":
			v.Metadata = value.(models.VideoMetadata)
		}
	}
	s.videos[id] = v
	return v, nil
}

func (s *fakeStore) get(id primitive.ObjectID) models.VideoAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videos[id]
}

// publishedEvent là một sự kiện đã được fakeBroadcaster ghi nhận
type publishedEvent struct {
	orgID   primitive.ObjectID
	event   string
	payload interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (b *fakeBroadcaster) Publish(orgID primitive.ObjectID, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, publishedEvent{orgID: orgID, event: event, payload: payload})
}

func (b *fakeBroadcaster) snapshot() []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]publishedEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *fakeBroadcaster) countByEvent(event string) int {
	count := 0
	for _, e := range b.snapshot() {
		if e.event == event {
			count++
		}
	}
	return count
}

// stubClassifier trả về verdict cố định, inject vào pipeline để test xác định
type stubClassifier struct {
	verdict Verdict
}

func (c *stubClassifier) Classify(video models.VideoAsset) Verdict {
	return c.verdict
}

func newTestVideo() models.VideoAsset {
	return models.VideoAsset{
		ID:             primitive.NewObjectID(),
		Title:          "test video",
		OrganizationID: primitive.NewObjectID(),
		UserID:         primitive.NewObjectID(),
		Status:         models.StatusUploading,
	}
}

func TestPipelineRunPublishesFixedProgressSteps(t *testing.T) {
	video := newTestVideo()
	store := newFakeStore(video)
	broadcaster := &fakeBroadcaster{}
	classifier := &stubClassifier{verdict: Verdict{
		Score:          85,
		Status:         models.StatusFlagged,
		FlaggedReasons: []string{"High sensitivity content detected", "Explicit content detected"},
	}}

	p := NewPipeline(store, broadcaster, classifier, time.Millisecond)
	p.Run(context.Background(), video.ID)

	events := broadcaster.snapshot()
	var progresses []int
	for _, e := range events {
		if e.event == realtime.EventVideoProcessingProgress {
			payload := e.payload.(realtime.ProgressPayload)
			progresses = append(progresses, payload.Progress)
			if e.orgID != video.OrganizationID {
				t.Errorf("sự kiện tiến độ phát sai organization: %s", e.orgID.Hex())
			}
		}
	}
	want := []int{25, 50, 75, 100}
	if len(progresses) != len(want) {
		t.Fatalf("số bước tiến độ = %d, muốn %d (%v)", len(progresses), len(want), progresses)
	}
	for i, p := range progresses {
		if p != want[i] {
			t.Errorf("bước %d có progress %d, muốn %d", i, p, want[i])
		}
	}
}

func TestPipelineRunPersistsVerdictAndBroadcastsComplete(t *testing.T) {
	video := newTestVideo()
	store := newFakeStore(video)
	broadcaster := &fakeBroadcaster{}
	classifier := &stubClassifier{verdict: Verdict{
		Score:          85,
		Status:         models.StatusFlagged,
		FlaggedReasons: []string{"High sensitivity content detected", "Explicit content detected"},
	}}

	p := NewPipeline(store, broadcaster, classifier, time.Millisecond)
	p.Run(context.Background(), video.ID)

	got := store.get(video.ID)
	if got.Status != models.StatusFlagged {
		t.Errorf("status = %q, muốn %q", got.Status, models.StatusFlagged)
	}
	if got.SensitivityScore != 85 {
		t.Errorf("sensitivityScore = %v, muốn 85", got.SensitivityScore)
	}
	if got.ProcessingProgress != 100 {
		t.Errorf("processingProgress = %d, muốn 100", got.ProcessingProgress)
	}
	if len(got.FlaggedReasons) != 2 {
		t.Errorf("flaggedReasons = %v, muốn 2 lý do", got.FlaggedReasons)
	}
	if got.Metadata.Codec != "h264" || got.Metadata.Width != 1920 {
		t.Errorf("metadata mô phỏng chưa được ghi: %+v", got.Metadata)
	}
	if got.ThumbnailURL != "/thumbnails/"+video.ID.Hex()+".jpg" {
		t.Errorf("thumbnailUrl = %q", got.ThumbnailURL)
	}

	if n := broadcaster.countByEvent(realtime.EventVideoProcessingComplete); n != 1 {
		t.Fatalf("số sự kiện complete = %d, muốn 1", n)
	}
	for _, e := range broadcaster.snapshot() {
		if e.event != realtime.EventVideoProcessingComplete {
			continue
		}
		payload := e.payload.(realtime.CompletePayload)
		if payload.Status != models.StatusFlagged || payload.SensitivityScore != 85 {
			t.Errorf("payload complete sai: %+v", payload)
		}
	}
}

func TestPipelineRunStoreFailureMarksFlagged(t *testing.T) {
	video := newTestVideo()
	store := newFakeStore(video)
	store.failOnCall = 3 // lỗi khi ghi giai đoạn 75
	broadcaster := &fakeBroadcaster{}

	p := NewPipeline(store, broadcaster, &stubClassifier{verdict: Verdict{Score: 10, Status: models.StatusSafe, FlaggedReasons: []string{}}}, time.Millisecond)
	p.Run(context.Background(), video.ID)

	if n := broadcaster.countByEvent(realtime.EventVideoProcessingComplete); n != 0 {
		t.Errorf("không được phát complete khi xử lý lỗi, có %d sự kiện", n)
	}
	if n := broadcaster.countByEvent(realtime.EventVideoProcessingError); n != 1 {
		t.Fatalf("số sự kiện error = %d, muốn 1", n)
	}
	for _, e := range broadcaster.snapshot() {
		if e.event == realtime.EventVideoProcessingError && e.orgID != video.OrganizationID {
			t.Errorf("sự kiện lỗi phát sai organization: %s", e.orgID.Hex())
		}
	}

	got := store.get(video.ID)
	if got.Status != models.StatusFlagged {
		t.Errorf("status sau lỗi = %q, muốn %q", got.Status, models.StatusFlagged)
	}
	if len(got.FlaggedReasons) != 1 || got.FlaggedReasons[0] != "Processing error occurred" {
		t.Errorf("flaggedReasons sau lỗi = %v", got.FlaggedReasons)
	}
}

func TestPipelineRunUnknownVideoPublishesNothing(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{}

	p := NewPipeline(store, broadcaster, nil, time.Millisecond)
	p.Run(context.Background(), primitive.NewObjectID())

	if events := broadcaster.snapshot(); len(events) != 0 {
		t.Errorf("không được phát sự kiện khi video không tồn tại, có %d sự kiện", len(events))
	}
}

func TestPipelineRunContextCancelled(t *testing.T) {
	video := newTestVideo()
	store := newFakeStore(video)
	broadcaster := &fakeBroadcaster{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(store, broadcaster, nil, time.Hour)
	p.Run(ctx, video.ID)

	if n := broadcaster.countByEvent(realtime.EventVideoProcessingError); n != 1 {
		t.Errorf("số sự kiện error khi cancel = %d, muốn 1", n)
	}
	if n := broadcaster.countByEvent(realtime.EventVideoProcessingComplete); n != 0 {
		t.Errorf("không được phát complete khi cancel, có %d sự kiện", n)
	}
}

func TestPipelineDispatchConcurrentVideos(t *testing.T) {
	first := newTestVideo()
	second := newTestVideo()
	store := newFakeStore(first, second)
	broadcaster := &fakeBroadcaster{}
	classifier := &stubClassifier{verdict: Verdict{Score: 10, Status: models.StatusSafe, FlaggedReasons: []string{}}}

	p := NewPipeline(store, broadcaster, classifier, time.Millisecond)
	p.Dispatch(first.ID)
	p.Dispatch(second.ID)

	deadline := time.Now().Add(5 * time.Second)
	for broadcaster.countByEvent(realtime.EventVideoProcessingComplete) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("timeout chờ 2 sự kiện complete, mới có %d", broadcaster.countByEvent(realtime.EventVideoProcessingComplete))
		}
		time.Sleep(5 * time.Millisecond)
	}

	for _, id := range []primitive.ObjectID{first.ID, second.ID} {
		got := store.get(id)
		if got.Status != models.StatusSafe {
			t.Errorf("video %s có status %q, muốn %q", id.Hex(), got.Status, models.StatusSafe)
		}
		if got.ProcessingProgress != 100 {
			t.Errorf("video %s có processingProgress %d, muốn 100", id.Hex(), got.ProcessingProgress)
		}
	}
}

func TestPipelineDispatchSameVideoTwiceRunsTwice(t *testing.T) {
	// Dispatch không dedupe: cùng một id chạy hai lần, mỗi lần phát đủ sự kiện
	video := newTestVideo()
	store := newFakeStore(video)
	broadcaster := &fakeBroadcaster{}
	classifier := &stubClassifier{verdict: Verdict{Score: 10, Status: models.StatusSafe, FlaggedReasons: []string{}}}

	p := NewPipeline(store, broadcaster, classifier, time.Millisecond)
	p.Dispatch(video.ID)
	p.Dispatch(video.ID)

	deadline := time.Now().Add(5 * time.Second)
	for broadcaster.countByEvent(realtime.EventVideoProcessingComplete) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("timeout chờ 2 sự kiện complete cho cùng một video, mới có %d", broadcaster.countByEvent(realtime.EventVideoProcessingComplete))
		}
		time.Sleep(5 * time.Millisecond)
	}

	if n := broadcaster.countByEvent(realtime.EventVideoProcessingProgress); n != 8 {
		t.Errorf("số sự kiện tiến độ = %d, muốn 8 (hai lượt chạy đầy đủ)", n)
	}
	if n := broadcaster.countByEvent(realtime.EventVideoProcessingError); n != 0 {
		t.Errorf("không được phát error khi chạy trùng, có %d sự kiện", n)
	}
	got := store.get(video.ID)
	if got.Status != models.StatusSafe || got.ProcessingProgress != 100 {
		t.Errorf("trạng thái cuối sau hai lượt chạy: status %q, progress %d", got.Status, got.ProcessingProgress)
	}
}
