// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

// GuestRepository 客人仓储
type GuestRepository struct {
	db *gorm.DB
}

// NewGuestRepository 创建客人仓储
func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// Create 创建客人
func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

// GetByID 根据 ID 获取客人
func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).First(&guest, id).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetByIDWithDetails 根据 ID 获取客人（包含关联信息）
func (r *GuestRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Preload("IDType").
		First(&guest, id).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetByIDNumberHash 根据证件号哈希获取客人
func (r *GuestRepository) GetByIDNumberHash(ctx context.Context, hash string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("id_number_hash = ?", hash).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// Update 更新客人
func (r *GuestRepository) Update(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Save(guest).Error
}

// UpdateFields 更新指定字段
func (r *GuestRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Guest{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除客人（软删除）
func (r *GuestRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Guest{}, id).Error
}

// List 获取客人列表
func (r *GuestRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Guest, int64, error) {
	var guests []*models.Guest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Guest{})

	// 应用过滤条件
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR phone LIKE ? OR email LIKE ?", kw, kw, kw, kw)
	}
	if phone, ok := filters["phone"].(string); ok && phone != "" {
		query = query.Where("phone = ?", phone)
	}
	if idTypeID, ok := filters["id_type_id"].(int64); ok && idTypeID > 0 {
		query = query.Where("id_type_id = ?", idTypeID)
	}
	if nationality, ok := filters["nationality"].(string); ok && nationality != "" {
		query = query.Where("nationality = ?", nationality)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("IDType").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&guests).Error; err != nil {
		return nil, 0, err
	}

	return guests, total, nil
}

// CountActiveReservations 统计客人未完结的预订数量
func (r *GuestRepository) CountActiveReservations(ctx context.Context, guestID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("guest_id = ?", guestID).
		Where("status IN ?", []string{
			models.ReservationStatusPending,
			models.ReservationStatusConfirmed,
			models.ReservationStatusCheckedIn,
		}).
		Count(&count).Error
	return count, err
}

// CountAll 统计客人总数
func (r *GuestRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Guest{}).Count(&count).Error
	return count, err
}

// CountCreatedBetween 统计区间内新登记的客人数量
func (r *GuestRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Guest{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// ExistsByIDNumberHash 检查证件号是否已登记
func (r *GuestRepository) ExistsByIDNumberHash(ctx context.Context, hash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Guest{}).
		Where("id_number_hash = ?", hash).
		Count(&count).Error
	return count > 0, err
}

// GuestIDTypeRepository 证件类型仓储
type GuestIDTypeRepository struct {
	db *gorm.DB
}

// NewGuestIDTypeRepository 创建证件类型仓储
func NewGuestIDTypeRepository(db *gorm.DB) *GuestIDTypeRepository {
	return &GuestIDTypeRepository{db: db}
}

// GetByID 根据 ID 获取证件类型
func (r *GuestIDTypeRepository) GetByID(ctx context.Context, id int64) (*models.GuestIDType, error) {
	var idType models.GuestIDType
	err := r.db.WithContext(ctx).First(&idType, id).Error
	if err != nil {
		return nil, err
	}
	return &idType, nil
}

// GetByCode 根据编码获取证件类型
func (r *GuestIDTypeRepository) GetByCode(ctx context.Context, code string) (*models.GuestIDType, error) {
	var idType models.GuestIDType
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&idType).Error
	if err != nil {
		return nil, err
	}
	return &idType, nil
}

// ListActive 获取启用的证件类型列表
func (r *GuestIDTypeRepository) ListActive(ctx context.Context) ([]*models.GuestIDType, error) {
	var idTypes []*models.GuestIDType
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&idTypes).Error
	return idTypes, err
}
