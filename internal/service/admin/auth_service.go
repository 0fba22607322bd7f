// Package admin 提供员工后台服务
package admin

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/crypto"
	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/jwt"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// AuthService 员工认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService 创建员工认证服务
func NewAuthService(userRepo *repository.UserRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token *jwt.TokenPair `json:"token"`
	User  *UserInfo      `json:"user"`
}

// UserInfo 员工信息
type UserInfo struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Phone       *string    `json:"phone,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Role        string     `json:"role"`
	Status      int8       `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// Login 员工登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, clientIP string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if user.Status != models.UserStatusActive {
		return nil, errors.ErrAccountDisabled
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, errors.ErrPasswordError
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, jwt.UserTypeAdmin, user.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	// 登录信息更新失败不阻断登录
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, clientIP); err != nil {
		logger.Warn("更新登录信息失败", logger.UserID(user.ID), zap.Error(err))
	}

	logger.Info("员工登录成功",
		logger.UserID(user.ID),
		zap.String("username", user.Username),
		zap.String("ip", clientIP))

	return &LoginResponse{
		Token: tokenPair,
		User:  convertUserInfo(user),
	}, nil
}

// RefreshToken 刷新令牌
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	tokenPair, err := s.jwtManager.RefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrTokenRefreshFail
	}
	return tokenPair, nil
}

// GetUserInfo 查询当前员工信息
func (s *AuthService) GetUserInfo(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertUserInfo(user), nil
}

// ChangePassword 修改密码
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.OldPassword, user.PasswordHash) {
		return errors.ErrPasswordError
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password_hash": hash,
	}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工密码已修改", logger.UserID(userID))
	return nil
}

func convertUserInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Name:        user.Name,
		Phone:       user.Phone,
		Email:       user.Email,
		Role:        user.Role,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
