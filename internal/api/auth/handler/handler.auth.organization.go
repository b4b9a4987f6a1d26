package authhdl

import (
	"fmt"

	authdto "sensistream/internal/api/auth/dto"
	models "sensistream/internal/api/auth/models"
	authsvc "sensistream/internal/api/auth/service"
	basehdl "sensistream/internal/api/base/handler"
	"sensistream/internal/common"

	"github.com/gofiber/fiber/v3"
)

// OrganizationHandler xử lý các request liên quan đến Organization
type OrganizationHandler struct {
	*basehdl.BaseHandler[models.Organization, authdto.OrganizationCreateInput, authdto.OrganizationUpdateInput]
	OrganizationService *authsvc.OrganizationService
}

// NewOrganizationHandler tạo mới OrganizationHandler
func NewOrganizationHandler() (*OrganizationHandler, error) {
	organizationService, err := authsvc.NewOrganizationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create organization service: %v", err)
	}
	base := basehdl.NewBaseHandler[models.Organization, authdto.OrganizationCreateInput, authdto.OrganizationUpdateInput](organizationService)
	return &OrganizationHandler{
		BaseHandler:         base,
		OrganizationService: organizationService,
	}, nil
}

// HandleFindByCode tìm tổ chức theo mã code (dùng khi đăng ký để xem trước tên tổ chức)
func (h *OrganizationHandler) HandleFindByCode(c fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		h.HandleResponse(c, nil, common.ErrRequiredField)
		return nil
	}
	organization, err := h.OrganizationService.FindByCode(c.Context(), code)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, organization, nil)
	return nil
}
