// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

// AddonProductRepository 附加商品仓储
type AddonProductRepository struct {
	db *gorm.DB
}

// NewAddonProductRepository 创建附加商品仓储
func NewAddonProductRepository(db *gorm.DB) *AddonProductRepository {
	return &AddonProductRepository{db: db}
}

// Create 创建附加商品
func (r *AddonProductRepository) Create(ctx context.Context, product *models.AddonProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID 根据 ID 获取附加商品
func (r *AddonProductRepository) GetByID(ctx context.Context, id int64) (*models.AddonProduct, error) {
	var product models.AddonProduct
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新附加商品
func (r *AddonProductRepository) Update(ctx context.Context, product *models.AddonProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete 删除附加商品（软删除）
func (r *AddonProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.AddonProduct{}, id).Error
}

// List 获取附加商品列表
func (r *AddonProductRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.AddonProduct, int64, error) {
	var products []*models.AddonProduct
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AddonProduct{})

	if category, ok := filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}
	if isActive, ok := filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", isActive)
	}
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("category ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// AddonOrderRepository 附加消费单仓储
type AddonOrderRepository struct {
	db *gorm.DB
}

// NewAddonOrderRepository 创建附加消费单仓储
func NewAddonOrderRepository(db *gorm.DB) *AddonOrderRepository {
	return &AddonOrderRepository{db: db}
}

// Create 创建附加消费单（含明细）
func (r *AddonOrderRepository) Create(ctx context.Context, order *models.AddonOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID 根据 ID 获取附加消费单
func (r *AddonOrderRepository) GetByID(ctx context.Context, id int64) (*models.AddonOrder, error) {
	var order models.AddonOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDWithDetails 根据 ID 获取附加消费单（包含明细）
func (r *AddonOrderRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.AddonOrder, error) {
	var order models.AddonOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Reservation.Guest").
		Preload("CreatedBy").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByReservation 获取预订的附加消费单列表
func (r *AddonOrderRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*models.AddonOrder, error) {
	var orders []*models.AddonOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("reservation_id = ?", reservationID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// List 获取附加消费单列表
func (r *AddonOrderRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.AddonOrder, int64, error) {
	var orders []*models.AddonOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AddonOrder{})

	if reservationID, ok := filters["reservation_id"].(int64); ok && reservationID > 0 {
		query = query.Where("reservation_id = ?", reservationID)
	}
	if billingID, ok := filters["billing_id"].(int64); ok && billingID > 0 {
		query = query.Where("billing_id = ?", billingID)
	}
	if orderNo, ok := filters["order_no"].(string); ok && orderNo != "" {
		query = query.Where("order_no LIKE ?", "%"+orderNo+"%")
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("created_at >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("created_at < ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// SumAmountBetween 统计区间内的附加消费总额
func (r *AddonOrderRepository) SumAmountBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.AddonOrder{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Row().Scan(&sum)
	return sum, err
}
