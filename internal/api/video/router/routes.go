// Package router đăng ký các route thuộc domain video.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authmodels "sensistream/internal/api/auth/models"
	"sensistream/internal/api/middleware"
	apirouter "sensistream/internal/api/router"
	videohdl "sensistream/internal/api/video/handler"
	"sensistream/internal/realtime"
)

// Register đăng ký các route video và endpoint realtime lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	videoHandler, err := videohdl.NewVideoHandler()
	if err != nil {
		return fmt.Errorf("failed to create video handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	orgContextMiddleware := middleware.OrganizationContextMiddleware()
	moderatorMiddleware := middleware.RequireRoles(authmodels.RoleAdmin, authmodels.RoleEditor)

	authChain := []fiber.Handler{authMiddleware, orgContextMiddleware}
	moderatorChain := []fiber.Handler{authMiddleware, orgContextMiddleware, moderatorMiddleware}

	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "POST", "/upload", authChain, videoHandler.HandleUpload)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "GET", "/", authChain, videoHandler.HandleList)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "GET", "/stats/overview", authChain, videoHandler.HandleStats)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "GET", "/:id", authChain, videoHandler.HandleGetByID)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "PUT", "/:id/status", moderatorChain, videoHandler.HandleUpdateStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/videos", "DELETE", "/:id", moderatorChain, videoHandler.HandleDelete)

	// Route CRUD generic cho admin tooling, tách prefix để không đè lên các route nghiệp vụ
	r.RegisterCRUDRoutes(v1, "/video", videoHandler, apirouter.ReadWriteConfig)

	// Endpoint websocket realtime, xác thực bằng token trong query
	v1.Get("/realtime/ws", realtime.WSHandler(realtime.GetHub()))

	return nil
}
