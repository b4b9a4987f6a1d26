// Package models - test các helper trạng thái video.
package models

import "testing"

func TestIsModerationStatus(t *testing.T) {
	for _, status := range []string{StatusApproved, StatusRejected, StatusSafe, StatusFlagged} {
		if !IsModerationStatus(status) {
			t.Errorf("trạng thái %q phải được phép đặt qua moderation", status)
		}
	}
	for _, status := range []string{StatusUploading, StatusProcessing, "", "deleted"} {
		if IsModerationStatus(status) {
			t.Errorf("trạng thái %q không được phép đặt qua moderation", status)
		}
	}
}

func TestValidStatusesCoverModeration(t *testing.T) {
	valid := make(map[string]bool, len(ValidStatuses))
	for _, status := range ValidStatuses {
		valid[status] = true
	}
	for _, status := range ModerationStatuses {
		if !valid[status] {
			t.Errorf("trạng thái moderation %q phải nằm trong ValidStatuses", status)
		}
	}
}
