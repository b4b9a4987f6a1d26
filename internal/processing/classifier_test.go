// Package processing - test classifier ngẫu nhiên với nguồn rand kịch bản.
package processing

import (
	"math/rand"
	"testing"

	models "sensistream/internal/api/video/models"
)

// scriptedSource là rand.Source trả về các giá trị Int63 theo kịch bản,
// giúp ép Float64 của rand.Rand về đúng giá trị mong muốn.
type scriptedSource struct {
	vals []int64
	i    int
}

func (s *scriptedSource) Int63() int64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func (s *scriptedSource) Seed(int64) {}

// asInt63 đổi một phân số trong [0, 1) thành giá trị Int63 sao cho rand.Float64 trả về đúng phân số đó
func asInt63(f float64) int64 {
	return int64(f * float64(int64(1)<<62) * 2)
}

func scriptedClassifier(fracs ...float64) *RandomClassifier {
	vals := make([]int64, len(fracs))
	for i, f := range fracs {
		vals[i] = asInt63(f)
	}
	return NewRandomClassifier(rand.New(&scriptedSource{vals: vals}))
}

func TestRandomClassifyHighScoreFlagged(t *testing.T) {
	// score 85, không dính violence/copyright
	c := scriptedClassifier(0.855, 0.1, 0.1)
	v := c.Classify(models.VideoAsset{Title: "test video"})

	if v.Status != models.StatusFlagged {
		t.Fatalf("status = %q, muốn %q", v.Status, models.StatusFlagged)
	}
	if v.Score != 85 {
		t.Errorf("score = %v, muốn 85", v.Score)
	}
	want := []string{
		"High sensitivity content detected",
		"Potential inappropriate language",
		"Explicit content detected",
	}
	if len(v.FlaggedReasons) != len(want) {
		t.Fatalf("flaggedReasons = %v, muốn %v", v.FlaggedReasons, want)
	}
	for i, reason := range want {
		if v.FlaggedReasons[i] != reason {
			t.Errorf("flaggedReasons[%d] = %q, muốn %q", i, v.FlaggedReasons[i], reason)
		}
	}
}

func TestRandomClassifyExtraReasons(t *testing.T) {
	// score 72 (chưa tới ngưỡng explicit), dính cả violence và copyright
	c := scriptedClassifier(0.725, 0.75, 0.85)
	v := c.Classify(models.VideoAsset{})

	if v.Status != models.StatusFlagged {
		t.Fatalf("status = %q, muốn %q", v.Status, models.StatusFlagged)
	}
	want := []string{
		"High sensitivity content detected",
		"Potential inappropriate language",
		"Violence or graphic content",
		"Copyright material detected",
	}
	if len(v.FlaggedReasons) != len(want) {
		t.Fatalf("flaggedReasons = %v, muốn %v", v.FlaggedReasons, want)
	}
	for i, reason := range want {
		if v.FlaggedReasons[i] != reason {
			t.Errorf("flaggedReasons[%d] = %q, muốn %q", i, v.FlaggedReasons[i], reason)
		}
	}
}

func TestRandomClassifySafeClearsReasons(t *testing.T) {
	// score 60 vẫn là safe dù dính ngưỡng language/violence/copyright
	c := scriptedClassifier(0.605, 0.9, 0.9)
	v := c.Classify(models.VideoAsset{})

	if v.Status != models.StatusSafe {
		t.Fatalf("status = %q, muốn %q", v.Status, models.StatusSafe)
	}
	if v.FlaggedReasons == nil {
		t.Fatal("flaggedReasons không được là nil cho video safe")
	}
	if len(v.FlaggedReasons) != 0 {
		t.Errorf("flaggedReasons của video safe phải rỗng, có %v", v.FlaggedReasons)
	}
}

// TestRandomClassifyScoreFloored điểm là số nguyên lấy phần nguyên của rand*100:
// 0.705 cho ra 70, không vượt ngưỡng 70 nên video vẫn safe.
func TestRandomClassifyScoreFloored(t *testing.T) {
	c := scriptedClassifier(0.705, 0.1, 0.1)
	v := c.Classify(models.VideoAsset{})

	if v.Score != 70 {
		t.Fatalf("score = %v, muốn 70", v.Score)
	}
	if v.Status != models.StatusSafe {
		t.Errorf("status = %q, muốn %q (score 70 chưa vượt ngưỡng)", v.Status, models.StatusSafe)
	}
	if len(v.FlaggedReasons) != 0 {
		t.Errorf("flaggedReasons = %v, muốn rỗng", v.FlaggedReasons)
	}
}

func TestRandomClassifyDefaultSourceInvariants(t *testing.T) {
	c := NewRandomClassifier(rand.New(rand.NewSource(42)))
	for i := 0; i < 200; i++ {
		v := c.Classify(models.VideoAsset{})
		if v.Score < 0 || v.Score >= 100 {
			t.Fatalf("score ngoài khoảng [0, 100): %v", v.Score)
		}
		flagged := v.Score > 70
		if flagged && v.Status != models.StatusFlagged {
			t.Fatalf("score %v phải flagged, có status %q", v.Score, v.Status)
		}
		if !flagged && v.Status != models.StatusSafe {
			t.Fatalf("score %v phải safe, có status %q", v.Score, v.Status)
		}
		if v.Status == models.StatusSafe && len(v.FlaggedReasons) != 0 {
			t.Fatalf("video safe không được có lý do: %v", v.FlaggedReasons)
		}
		if v.Status == models.StatusFlagged && len(v.FlaggedReasons) == 0 {
			t.Fatalf("video flagged phải có ít nhất một lý do (score %v)", v.Score)
		}
	}
}
