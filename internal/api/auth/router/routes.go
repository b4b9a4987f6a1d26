// Package router đăng ký các route thuộc domain auth: System, Auth, User, Organization.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "sensistream/internal/api/auth/handler"
	models "sensistream/internal/api/auth/models"
	basehdl "sensistream/internal/api/base/handler"
	"sensistream/internal/api/middleware"
	apirouter "sensistream/internal/api/router"
)

// Register đăng ký tất cả route auth (system, auth, user, organization) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1); err != nil {
		return err
	}
	if err := registerUserRoutes(v1, r); err != nil {
		return err
	}
	if err := registerOrganizationRoutes(v1, r); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Các route public (không cần đăng nhập)
	router.Post("/auth/register", userHandler.HandleRegister)
	router.Post("/auth/login", userHandler.HandleLogin)
	router.Get("/auth/verify-email", userHandler.HandleVerifyEmail)
	router.Post("/auth/verify-email", userHandler.HandleVerifyEmail)
	router.Post("/auth/resend-verification", userHandler.HandleResendVerification)
	router.Post("/auth/forgot-password", userHandler.HandleForgotPassword)
	router.Post("/auth/reset-password", userHandler.HandleResetPassword)

	// Các route cần đăng nhập
	authMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", []fiber.Handler{authMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/profile", []fiber.Handler{authMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/me", []fiber.Handler{authMiddleware}, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/profile", []fiber.Handler{authMiddleware}, userHandler.HandleUpdateProfile)
	return nil
}

func registerUserRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Đổi role do admin thực hiện, target phải cùng tổ chức
	authMiddleware := middleware.AuthMiddleware()
	adminMiddleware := middleware.RequireRoles(models.RoleAdmin)
	apirouter.RegisterRouteWithMiddleware(router, "/user", "PUT", "/change-role/:id", []fiber.Handler{authMiddleware, adminMiddleware}, userHandler.HandleChangeRole)

	r.RegisterCRUDRoutes(router, "/user", userHandler, apirouter.ReadOnlyConfig)
	return nil
}

func registerOrganizationRoutes(router fiber.Router, r *apirouter.Router) error {
	organizationHandler, err := authhdl.NewOrganizationHandler()
	if err != nil {
		return fmt.Errorf("failed to create organization handler: %w", err)
	}

	// Tra cứu tổ chức theo code là public (dùng ở form đăng ký)
	router.Get("/organization/by-code/:code", organizationHandler.HandleFindByCode)

	r.RegisterCRUDRoutes(router, "/organization", organizationHandler, apirouter.ReadOnlyConfig)
	return nil
}
