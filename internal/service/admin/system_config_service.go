package admin

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// SystemConfigService 系统配置服务
type SystemConfigService struct {
	configRepo *repository.SystemConfigRepository
}

// NewSystemConfigService 创建系统配置服务
func NewSystemConfigService(configRepo *repository.SystemConfigRepository) *SystemConfigService {
	return &SystemConfigService{configRepo: configRepo}
}

// UpdateConfigRequest 更新配置请求
type UpdateConfigRequest struct {
	Value string `json:"value" binding:"required,max=1000"`
}

// GetConfig 查询配置项
func (s *SystemConfigService) GetConfig(ctx context.Context, key string) (*models.SystemConfig, error) {
	cfg, err := s.configRepo.GetByKey(ctx, key)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrResourceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return cfg, nil
}

// ListConfigsByGroup 按分组查询配置
func (s *SystemConfigService) ListConfigsByGroup(ctx context.Context, group string) ([]*models.SystemConfig, error) {
	configs, err := s.configRepo.GetByGroup(ctx, group)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return configs, nil
}

// UpdateConfig 更新配置项
// 数值型配置校验格式，首付比例额外限定 (0,1]
func (s *SystemConfigService) UpdateConfig(ctx context.Context, key, value string) (*models.SystemConfig, error) {
	cfg, err := s.configRepo.GetByKey(ctx, key)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrResourceNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if cfg.Type == models.ConfigTypeNumber {
		f, parseErr := strconv.ParseFloat(value, 64)
		if parseErr != nil {
			return nil, errors.ErrInvalidParams.WithMessage("配置值必须为数字")
		}
		if key == models.ConfigKeyDownpaymentRate && (f <= 0 || f > 1) {
			return nil, errors.ErrInvalidParams.WithMessage("首付比例必须在 (0,1] 区间")
		}
		if key == models.ConfigKeyPendingExpireHours && f < 1 {
			return nil, errors.ErrInvalidParams.WithMessage("过期时长至少1小时")
		}
	}

	if err := s.configRepo.UpdateValue(ctx, key, value); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	cfg.Value = value
	logger.Info("系统配置已更新",
		zap.String("key", key),
		zap.String("value", value))
	return cfg, nil
}
