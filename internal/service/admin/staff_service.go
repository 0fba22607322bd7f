package admin

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/crypto"
	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// StaffService 员工管理服务
type StaffService struct {
	userRepo *repository.UserRepository
}

// NewStaffService 创建员工管理服务
func NewStaffService(userRepo *repository.UserRepository) *StaffService {
	return &StaffService{userRepo: userRepo}
}

// CreateStaffRequest 创建员工请求
type CreateStaffRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Password string  `json:"password" binding:"required,min=6,max=64"`
	Name     string  `json:"name" binding:"required,max=50"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Role     string  `json:"role" binding:"required,oneof=admin front_desk"`
}

// UpdateStaffRequest 更新员工请求
type UpdateStaffRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=50"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Role  *string `json:"role,omitempty" binding:"omitempty,oneof=admin front_desk"`
}

// CreateStaff 创建员工
func (s *StaffService) CreateStaff(ctx context.Context, req *CreateStaffRequest) (*UserInfo, error) {
	username := strings.TrimSpace(req.Username)

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrUserExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工已创建",
		logger.UserID(user.ID),
		zap.String("username", user.Username),
		zap.String("role", user.Role))
	return convertUserInfo(user), nil
}

// GetStaff 查询员工
func (s *StaffService) GetStaff(ctx context.Context, id int64) (*UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertUserInfo(user), nil
}

// ListStaff 分页查询员工
func (s *StaffService) ListStaff(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*UserInfo, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, convertUserInfo(user))
	}
	return infos, total, nil
}

// UpdateStaff 更新员工
func (s *StaffService) UpdateStaff(ctx context.Context, id int64, req *UpdateStaffRequest) (*UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertUserInfo(user), nil
}

// UpdateStaffStatus 启用/禁用员工
func (s *StaffService) UpdateStaffStatus(ctx context.Context, id int64, status int8) error {
	if status != models.UserStatusDisabled && status != models.UserStatusActive {
		return errors.ErrInvalidParams.WithMessage("无效的员工状态")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工状态已变更", logger.UserID(id), zap.Int8("status", status))
	return nil
}

// ResetPassword 重置员工密码
func (s *StaffService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.ErrInvalidParams.WithMessage("密码长度不能少于6位")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"password_hash": hash,
	}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工密码已重置", logger.UserID(id))
	return nil
}

// DeleteStaff 删除员工
func (s *StaffService) DeleteStaff(ctx context.Context, id, operatorID int64) error {
	if id == operatorID {
		return errors.ErrInvalidParams.WithMessage("不能删除自己的账号")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工已删除", logger.UserID(id))
	return nil
}
