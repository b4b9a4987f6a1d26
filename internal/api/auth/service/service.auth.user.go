// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	authdto "sensistream/internal/api/auth/dto"
	models "sensistream/internal/api/auth/models"
	basesvc "sensistream/internal/api/base/service"
	"sensistream/internal/common"
	"sensistream/internal/global"
	"sensistream/internal/mailer"
	"sensistream/internal/utility"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thời hạn của các token gửi qua email
const (
	VerificationTokenTTL = 24 * time.Hour // Hạn token xác thực email
	ResetTokenTTL        = 1 * time.Hour  // Hạn token đặt lại mật khẩu
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	organizationService *OrganizationService
	mailQueue           *mailer.Queue
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	organizationService, err := NewOrganizationService()
	if err != nil {
		return nil, err
	}
	mailQueue, err := mailer.NewQueue()
	if err != nil {
		return nil, err
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		organizationService:  organizationService,
		mailQueue:            mailQueue,
	}, nil
}

// Register đăng ký người dùng mới.
// Nếu input có OrganizationCode, user gia nhập tổ chức đó với role viewer.
// Nếu không, một tổ chức mới được tạo từ OrganizationName và user trở thành admin.
// Sau khi tạo user, một email xác thực được enqueue vào delivery queue.
func (s *UserService) Register(ctx context.Context, input *authdto.RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrEmailExists
	}

	var organization models.Organization
	role := models.RoleViewer
	if input.OrganizationCode != "" {
		organization, err = s.organizationService.FindByCode(ctx, input.OrganizationCode)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.NewError(common.ErrCodeBusinessState, "Mã tổ chức không tồn tại", common.StatusNotFound, nil)
			}
			return nil, err
		}
		if !organization.IsActive {
			return nil, common.NewError(common.ErrCodeBusinessState, "Tổ chức đã ngừng hoạt động", common.StatusForbidden, nil)
		}
	} else {
		// Tạo tổ chức mới với mã code sinh ngẫu nhiên, user đầu tiên là admin
		code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		organization, err = s.organizationService.InsertOne(ctx, models.Organization{
			Name:     strings.TrimSpace(input.OrganizationName),
			Code:     code,
			IsActive: true,
		})
		if err != nil {
			logrus.WithError(err).Error("Register: Lỗi khi tạo tổ chức mới")
			return nil, err
		}
		role = models.RoleAdmin
	}

	salt, err := utility.GenerateSalt()
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo salt", common.StatusInternalServerError, err)
	}

	verificationToken := uuid.New().String()
	user := models.User{
		Name:               strings.TrimSpace(input.Name),
		Email:              email,
		Password:           utility.HashPassword(input.Password, salt),
		Salt:               salt,
		Role:               role,
		OrganizationID:     organization.ID,
		EmailVerified:      false,
		VerificationToken:  verificationToken,
		VerificationExpiry: time.Now().Add(VerificationTokenTTL).UnixMilli(),
		Tokens:             []models.Token{},
	}

	createdUser, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Error("Register: Lỗi khi tạo user")
		return nil, err
	}

	// Cấp JWT ngay khi đăng ký để client dùng được các route chỉ cần đăng nhập
	rdNumber := rand.Intn(100)
	currentTime := time.Now().Unix()
	tokenMap, err := utility.CreateToken(global.MongoDB_ServerConfig.JwtSecret, createdUser.ID.Hex(), strconv.FormatInt(currentTime, 16), strconv.Itoa(rdNumber))
	if err != nil {
		return nil, err
	}
	tokenUpdateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"token": tokenMap["token"]},
	}
	createdUser, err = s.BaseServiceMongoImpl.UpdateById(ctx, createdUser.ID, tokenUpdateData)
	if err != nil {
		return nil, err
	}

	s.enqueueVerificationEmail(ctx, &createdUser, verificationToken)

	logrus.WithFields(logrus.Fields{"user_id": createdUser.ID.Hex(), "email": createdUser.Email, "organization_id": organization.ID.Hex(), "role": role}).Info("Register: Đăng ký thành công")
	return &createdUser, nil
}

// Login đăng nhập bằng email và mật khẩu.
// Mỗi thiết bị (hwid) giữ một token riêng trong mảng tokens của user.
func (s *UserService) Login(ctx context.Context, input *authdto.LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utility.VerifyPassword(input.Password, user.Salt, user.Password) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, common.ErrEmailNotVerified
	}
	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuth, "Tài khoản đã bị khóa", common.StatusForbidden, nil)
	}

	rdNumber := rand.Intn(100)
	currentTime := time.Now().Unix()
	tokenMap, err := utility.CreateToken(global.MongoDB_ServerConfig.JwtSecret, user.ID.Hex(), strconv.FormatInt(currentTime, 16), strconv.Itoa(rdNumber))
	if err != nil {
		return nil, err
	}

	user.Token = tokenMap["token"]
	var idTokenExist int = -1
	for i, _token := range user.Tokens {
		if _token.Hwid == input.Hwid {
			idTokenExist = i
			break
		}
	}
	if idTokenExist == -1 {
		user.Tokens = append(user.Tokens, models.Token{Hwid: input.Hwid, JwtToken: tokenMap["token"]})
	} else {
		user.Tokens[idTokenExist].JwtToken = tokenMap["token"]
	}

	tokenUpdateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":  user.Token,
			"tokens": user.Tokens,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, tokenUpdateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("Login: Lỗi khi cập nhật token vào user")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("Login: Đăng nhập thành công")
	return &updatedUser, nil
}

// Logout đăng xuất người dùng (xóa token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.LogoutInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	newTokens := make([]models.Token, 0)
	for _, t := range user.Tokens {
		if t.Hwid != input.Hwid {
			newTokens = append(newTokens, t)
		}
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"tokens": newTokens,
			"token":  "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// VerifyEmail xác thực email bằng token đã gửi qua mail
func (s *UserService) VerifyEmail(ctx context.Context, input *authdto.VerifyEmailInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"verificationToken": input.Token}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	if user.VerificationExpiry < time.Now().UnixMilli() {
		return nil, common.ErrTokenExpired
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"emailVerified": true,
		},
		Unset: map[string]interface{}{
			"verificationToken":  "",
			"verificationExpiry": "",
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, err
	}

	// Gửi email chào mừng sau khi xác thực thành công
	subject, body := mailer.BuildWelcomeEmail(updatedUser.Name, global.MongoDB_ServerConfig.FrontendURL)
	enqueueErr := s.mailQueue.Enqueue(ctx, []*mailer.DeliveryQueueItem{{
		Kind:      mailer.KindWelcome,
		Recipient: updatedUser.Email,
		Subject:   subject,
		Body:      body,
	}})
	if enqueueErr != nil {
		logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "error": enqueueErr.Error()}).Error("VerifyEmail: Lỗi khi enqueue email chào mừng")
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("VerifyEmail: Xác thực email thành công")
	return &updatedUser, nil
}

// ResendVerification gửi lại email xác thực với token mới.
// Luôn trả về nil cho email không tồn tại hoặc đã xác thực để tránh lộ thông tin tài khoản.
func (s *UserService) ResendVerification(ctx context.Context, input *authdto.ResendVerificationInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}

	verificationToken := uuid.New().String()
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"verificationToken":  verificationToken,
			"verificationExpiry": time.Now().Add(VerificationTokenTTL).UnixMilli(),
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return err
	}

	s.enqueueVerificationEmail(ctx, &updatedUser, verificationToken)
	return nil
}

// ForgotPassword tạo reset token và enqueue email đặt lại mật khẩu.
// Luôn trả về nil cho email không tồn tại để tránh lộ thông tin tài khoản.
func (s *UserService) ForgotPassword(ctx context.Context, input *authdto.ForgotPasswordInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	resetToken := uuid.New().String()
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"resetToken":  resetToken,
			"resetExpiry": time.Now().Add(ResetTokenTTL).UnixMilli(),
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", global.MongoDB_ServerConfig.FrontendURL, resetToken)
	subject, body := mailer.BuildPasswordResetEmail(updatedUser.Name, resetLink)
	enqueueErr := s.mailQueue.Enqueue(ctx, []*mailer.DeliveryQueueItem{{
		Kind:      mailer.KindPasswordReset,
		Recipient: updatedUser.Email,
		Subject:   subject,
		Body:      body,
	}})
	if enqueueErr != nil {
		logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "error": enqueueErr.Error()}).Error("ForgotPassword: Lỗi khi enqueue email đặt lại mật khẩu")
	}
	return nil
}

// ResetPassword đặt lại mật khẩu bằng reset token.
// Toàn bộ phiên đăng nhập hiện tại bị thu hồi sau khi đổi mật khẩu.
func (s *UserService) ResetPassword(ctx context.Context, input *authdto.ResetPasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"resetToken": input.Token}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrTokenInvalid
		}
		return err
	}
	if user.ResetExpiry < time.Now().UnixMilli() {
		return common.ErrTokenExpired
	}

	salt, err := utility.GenerateSalt()
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể tạo salt", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"password": utility.HashPassword(input.NewPassword, salt),
			"salt":     salt,
			"token":    "",
			"tokens":   []models.Token{},
		},
		Unset: map[string]interface{}{
			"resetToken":  "",
			"resetExpiry": "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return err
	}

	logrus.WithField("user_id", user.ID.Hex()).Info("ResetPassword: Đặt lại mật khẩu thành công")
	return nil
}

// SetRole đổi role của một user trong cùng tổ chức (admin only).
// Admin không thể tự hạ role của chính mình để tránh tổ chức mất admin cuối cùng.
func (s *UserService) SetRole(ctx context.Context, actorID primitive.ObjectID, targetID primitive.ObjectID, role string) (*models.User, error) {
	if actorID == targetID {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể tự thay đổi role của chính mình", common.StatusBadRequest, nil)
	}

	target, err := s.BaseServiceMongoImpl.FindOneById(ctx, targetID)
	if err != nil {
		return nil, err
	}
	actor, err := s.BaseServiceMongoImpl.FindOneById(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.OrganizationID != target.OrganizationID {
		return nil, common.NewError(common.ErrCodeAuthRole, "Người dùng không thuộc tổ chức của bạn", common.StatusForbidden, nil)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"role": role},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, targetID, updateData)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"actor_id": actorID.Hex(), "target_id": targetID.Hex(), "role": role}).Info("SetRole: Đổi role thành công")
	return &updatedUser, nil
}

// enqueueVerificationEmail enqueue email xác thực vào delivery queue.
// Lỗi enqueue chỉ được log, không làm fail thao tác chính (user có thể gửi lại sau).
func (s *UserService) enqueueVerificationEmail(ctx context.Context, user *models.User, token string) {
	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", global.MongoDB_ServerConfig.FrontendURL, token)
	subject, body := mailer.BuildVerificationEmail(user.Name, verifyLink)
	err := s.mailQueue.Enqueue(ctx, []*mailer.DeliveryQueueItem{{
		Kind:      mailer.KindVerification,
		Recipient: user.Email,
		Subject:   subject,
		Body:      body,
	}})
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("Register: Lỗi khi enqueue email xác thực")
	}
}
