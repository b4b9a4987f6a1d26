// Package authsvc - service tổ chức (Organization).
package authsvc

import (
	"context"
	"fmt"
	"strings"

	basesvc "sensistream/internal/api/base/service"
	models "sensistream/internal/api/auth/models"
	"sensistream/internal/common"
	"sensistream/internal/global"

	"go.mongodb.org/mongo-driver/bson"
)

// OrganizationService là cấu trúc chứa các phương thức liên quan đến tổ chức
type OrganizationService struct {
	*basesvc.BaseServiceMongoImpl[models.Organization]
}

// NewOrganizationService tạo mới OrganizationService
func NewOrganizationService() (*OrganizationService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Organizations)
	if !exist {
		return nil, fmt.Errorf("failed to get organizations collection: %v", common.ErrNotFound)
	}

	return &OrganizationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Organization](collection),
	}, nil
}

// FindByCode tìm tổ chức theo mã code (không phân biệt hoa thường)
func (s *OrganizationService) FindByCode(ctx context.Context, code string) (models.Organization, error) {
	filter := bson.M{"code": strings.ToUpper(code)}
	return s.BaseServiceMongoImpl.FindOne(ctx, filter, nil)
}
