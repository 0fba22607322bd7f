// Package repository 提供数据访问层
package repository

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

// SystemConfigRepository 系统配置仓储
type SystemConfigRepository struct {
	db *gorm.DB
}

// NewSystemConfigRepository 创建系统配置仓储
func NewSystemConfigRepository(db *gorm.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// Create 创建配置
func (r *SystemConfigRepository) Create(ctx context.Context, config *models.SystemConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

// GetByKey 根据键获取配置
func (r *SystemConfigRepository) GetByKey(ctx context.Context, key string) (*models.SystemConfig, error) {
	var config models.SystemConfig
	err := r.db.WithContext(ctx).
		Where("\"key\" = ?", key).
		First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// GetFloat 读取浮点配置值，不存在或解析失败返回默认值
func (r *SystemConfigRepository) GetFloat(ctx context.Context, key string, defaultValue float64) float64 {
	config, err := r.GetByKey(ctx, key)
	if err != nil {
		return defaultValue
	}
	v, err := strconv.ParseFloat(config.Value, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// GetInt 读取整数配置值，不存在或解析失败返回默认值
func (r *SystemConfigRepository) GetInt(ctx context.Context, key string, defaultValue int) int {
	config, err := r.GetByKey(ctx, key)
	if err != nil {
		return defaultValue
	}
	v, err := strconv.Atoi(config.Value)
	if err != nil {
		return defaultValue
	}
	return v
}

// GetByGroup 获取分组下的所有配置
func (r *SystemConfigRepository) GetByGroup(ctx context.Context, group string) ([]*models.SystemConfig, error) {
	var configs []*models.SystemConfig
	err := r.db.WithContext(ctx).
		Where("\"group\" = ?", group).
		Order("id ASC").
		Find(&configs).Error
	return configs, err
}

// UpdateValue 更新配置值
func (r *SystemConfigRepository) UpdateValue(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Model(&models.SystemConfig{}).
		Where("\"key\" = ?", key).
		Update("value", value).Error
}

// Upsert 创建或更新配置
func (r *SystemConfigRepository) Upsert(ctx context.Context, config *models.SystemConfig) error {
	var existing models.SystemConfig
	err := r.db.WithContext(ctx).Where("\"key\" = ?", config.Key).First(&existing).Error
	if err == nil {
		config.ID = existing.ID
		return r.db.WithContext(ctx).Save(config).Error
	}
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(config).Error
	}
	return err
}

// List 获取配置列表
func (r *SystemConfigRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.SystemConfig, int64, error) {
	var configs []*models.SystemConfig
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SystemConfig{})

	if group, ok := filters["group"].(string); ok && group != "" {
		query = query.Where("\"group\" = ?", group)
	}
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		keyword = "%" + keyword + "%"
		query = query.Where("\"key\" LIKE ? OR description LIKE ?", keyword, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("\"group\" ASC, id ASC").Offset(offset).Limit(limit).Find(&configs).Error; err != nil {
		return nil, 0, err
	}

	return configs, total, nil
}
