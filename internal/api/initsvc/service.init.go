// Package initsvc chứa InitService dùng để khởi tạo dữ liệu ban đầu (organization hệ thống, admin mặc định, thư mục upload).
// Tách ra package riêng để tránh import cycle giữa auth/service và cmd/server.
package initsvc

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	authmodels "sensistream/internal/api/auth/models"
	authsvc "sensistream/internal/api/auth/service"
	"sensistream/internal/common"
	"sensistream/internal/global"
	"sensistream/internal/logger"
	"sensistream/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// SystemOrgCode là mã cố định của organization hệ thống (tạo sẵn khi boot)
const SystemOrgCode = "SYSTEM"

// InitService là cấu trúc chứa các phương thức khởi tạo dữ liệu ban đầu cho hệ thống
type InitService struct {
	userService         *authsvc.UserService         // Service xử lý người dùng
	organizationService *authsvc.OrganizationService // Service xử lý tổ chức
}

// NewInitService tạo mới InitService
func NewInitService() (*InitService, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	organizationService, err := authsvc.NewOrganizationService()
	if err != nil {
		return nil, err
	}

	return &InitService{
		userService:         userService,
		organizationService: organizationService,
	}, nil
}

// EnsureUploadDir đảm bảo thư mục lưu file video tồn tại
func (s *InitService) EnsureUploadDir() error {
	dir := global.MongoDB_ServerConfig.UploadDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	logger.GetAppLogger().Infof("Upload directory ensured: %s", dir)
	return nil
}

// InitSystemOrganization tạo organization hệ thống nếu chưa có.
// Organization này dùng cho admin mặc định và các tác vụ quản trị.
func (s *InitService) InitSystemOrganization(ctx context.Context) (*authmodels.Organization, error) {
	org, err := s.organizationService.FindByCode(ctx, SystemOrgCode)
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UnixMilli()
	org, err = s.organizationService.InsertOne(ctx, authmodels.Organization{
		Name:      global.MongoDB_ServerConfig.AdminOrgName,
		Code:      SystemOrgCode,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	logger.GetAppLogger().Infof("System organization created (code: %s)", SystemOrgCode)
	return &org, nil
}

// InitAdminUser tạo admin mặc định từ config (ADMIN_EMAIL/ADMIN_PASSWORD) nếu chưa tồn tại.
// Admin này thuộc organization hệ thống, email được đánh dấu đã xác thực để login được ngay.
func (s *InitService) InitAdminUser(ctx context.Context, org *authmodels.Organization) error {
	cfg := global.MongoDB_ServerConfig
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.GetAppLogger().Info("ADMIN_EMAIL not set, skip seeding default admin")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	exists, err := s.userService.DocumentExists(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	salt, err := utility.GenerateSalt()
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	_, err = s.userService.InsertOne(ctx, authmodels.User{
		Name:           "Administrator",
		Email:          email,
		Password:       utility.HashPassword(cfg.AdminPassword, salt),
		Salt:           salt,
		Role:           authmodels.RoleAdmin,
		OrganizationID: org.ID,
		EmailVerified:  true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return err
	}

	logger.GetAppLogger().Infof("Default admin user created: %s", email)
	return nil
}
