package authdto

// OrganizationCreateInput đầu vào tạo tổ chức.
type OrganizationCreateInput struct {
	Name string `json:"name" validate:"required" maxLength:"150"`
	Code string `json:"code" validate:"required,alphanum"`
}

// OrganizationUpdateInput đầu vào cập nhật tổ chức.
type OrganizationUpdateInput struct {
	Name     string `json:"name" validate:"omitempty" maxLength:"150"`
	IsActive *bool  `json:"isActive" validate:"omitempty"`
}
