// Package registry - test registry generic dùng chung.
package registry

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	if err != nil {
		t.Fatalf("Register lỗi: %v", err)
	}
	if !isNew {
		t.Error("đăng ký lần đầu phải trả về isNew = true")
	}

	isNew, err = r.Register("a", 2)
	if err != nil {
		t.Fatalf("Register lần hai lỗi: %v", err)
	}
	if isNew {
		t.Error("đăng ký trùng tên phải trả về isNew = false")
	}

	got, exists := r.Get("a")
	if !exists || got != 2 {
		t.Errorf("Get(a) = (%v, %v), muốn (2, true) vì đăng ký trùng ghi đè item cũ", got, exists)
	}

	if _, exists := r.Get("missing"); exists {
		t.Error("Get tên chưa đăng ký phải trả về exists = false")
	}
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry[string]()
	creatorCalls := 0

	for i := 0; i < 3; i++ {
		got, err := r.GetOrCreate("room", func() (string, error) {
			creatorCalls++
			return "created", nil
		})
		if err != nil {
			t.Fatalf("GetOrCreate lỗi: %v", err)
		}
		if got != "created" {
			t.Errorf("GetOrCreate = %q, muốn %q", got, "created")
		}
	}
	if creatorCalls != 1 {
		t.Errorf("creator phải chỉ chạy một lần, chạy %d lần", creatorCalls)
	}

	wantErr := errors.New("creator failed")
	_, err := r.GetOrCreate("bad", func() (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("GetOrCreate phải trả lỗi của creator, có: %v", err)
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)

	cleaned := false
	deleted, err := r.Clear("a", func(int) error {
		cleaned = true
		return nil
	})
	if err != nil {
		t.Fatalf("Clear lỗi: %v", err)
	}
	if !deleted || !cleaned {
		t.Errorf("Clear = (deleted %v, cleaned %v), muốn (true, true)", deleted, cleaned)
	}
	if _, exists := r.Get("a"); exists {
		t.Error("item phải bị gỡ sau Clear")
	}
}

func TestRegistryConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.GetOrCreate("shared", func() (int, error) { return 7, nil }); err != nil {
				t.Errorf("GetOrCreate lỗi: %v", err)
			}
		}()
	}
	wg.Wait()

	got, exists := r.Get("shared")
	if !exists || got != 7 {
		t.Errorf("Get(shared) = (%v, %v), muốn (7, true)", got, exists)
	}
}
