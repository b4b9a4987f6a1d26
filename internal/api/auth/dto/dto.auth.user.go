// Package authdto - các DTO cho domain auth.
package authdto

// RegisterInput đầu vào đăng ký người dùng.
// Nếu OrganizationCode được cung cấp, user gia nhập tổ chức có sẵn với role viewer.
// Nếu không, một tổ chức mới được tạo từ OrganizationName và user trở thành admin của tổ chức đó.
type RegisterInput struct {
	Name             string `json:"name" validate:"required" maxLength:"100"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,strong_password"`
	OrganizationCode string `json:"organizationCode" validate:"omitempty,alphanum"`
	OrganizationName string `json:"organizationName" validate:"required_without=OrganizationCode" maxLength:"150"`
}

// LoginInput đầu vào đăng nhập người dùng.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid" validate:"required"`
}

// LogoutInput đầu vào đăng xuất người dùng.
type LogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// VerifyEmailInput đầu vào xác thực email.
type VerifyEmailInput struct {
	Token string `json:"token" validate:"required"`
}

// ResendVerificationInput đầu vào gửi lại email xác thực.
type ResendVerificationInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordInput đầu vào yêu cầu đặt lại mật khẩu.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput đầu vào đặt lại mật khẩu bằng reset token.
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}

// ChangeRoleInput đầu vào đổi role của một người dùng (admin only).
type ChangeRoleInput struct {
	Role string `json:"role" validate:"required,oneof=admin editor viewer"`
}

// UserCreateInput đầu vào tạo người dùng qua route CRUD (admin only).
type UserCreateInput struct {
	Name           string `json:"name" validate:"required" maxLength:"100"`
	Email          string `json:"email" validate:"required,email"`
	Role           string `json:"role" validate:"omitempty,oneof=admin editor viewer"`
	OrganizationID string `json:"organizationId" validate:"omitempty" transform:"str_objectid,map=OrganizationID,optional"`
}

// UserUpdateInput đầu vào cập nhật người dùng qua route CRUD (admin only).
type UserUpdateInput struct {
	Name  string `json:"name" validate:"omitempty" maxLength:"100"`
	Role  string `json:"role" validate:"omitempty,oneof=admin editor viewer"`
	Block *bool  `json:"block" validate:"omitempty"`
}
