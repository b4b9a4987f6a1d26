package middleware

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "sensistream/internal/api/auth/models"
	"sensistream/internal/utility"
)

// OrganizationContextMiddleware middleware để quản lý organization context.
// Organization của user được suy ra trực tiếp từ user (mỗi user thuộc đúng một tổ chức).
// Admin có thể override bằng header X-Organization-ID để thao tác trên tổ chức khác.
func OrganizationContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy user từ context (đã được set bởi AuthMiddleware)
		user, ok := c.Locals("user").(*models.User)
		if !ok || user == nil {
			// Không có user, có thể là route không cần auth
			// Cho phép tiếp tục nhưng không set organization context
			return c.Next()
		}

		orgID := user.OrganizationID

		// Admin được phép chuyển context sang tổ chức khác qua header
		if user.Role == models.RoleAdmin {
			headerOrgID := c.Get("X-Organization-ID")
			if headerOrgID != "" {
				overrideID, err := primitive.ObjectIDFromHex(headerOrgID)
				if err == nil {
					orgID = overrideID
				}
			}
		}

		if !orgID.IsZero() {
			c.Locals("organization_id", utility.ObjectID2String(orgID))
		}

		return c.Next()
	}
}
