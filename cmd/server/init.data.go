package main

import (
	"context"

	"sensistream/internal/api/initsvc"
	"sensistream/internal/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// 1. Đảm bảo thư mục upload tồn tại (PHẢI LÀM TRƯỚC khi nhận upload)
	log.Info("🔄 [INIT] Step 1: Ensuring upload directory...")
	if err := initService.EnsureUploadDir(); err != nil {
		log.Fatalf("Failed to ensure upload directory: %v", err)
	}
	log.Info("✅ [INIT] Step 1: Upload directory ensured")

	// 2. Khởi tạo Organization hệ thống (nếu chưa có)
	log.Info("🔄 [INIT] Step 2: Initializing system organization...")
	org, err := initService.InitSystemOrganization(context.TODO())
	if err != nil {
		log.Fatalf("Failed to initialize system organization: %v", err)
	}
	log.Info("✅ [INIT] Step 2: System organization initialized")

	// 3. Tạo admin mặc định từ config (nếu có ADMIN_EMAIL/ADMIN_PASSWORD)
	// Lưu ý: user đầu tiên đăng ký vào một organization mới vẫn tự động trở thành admin của org đó
	if err := initService.InitAdminUser(context.TODO(), org); err != nil {
		log.Warnf("Failed to initialize default admin user: %v", err)
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
