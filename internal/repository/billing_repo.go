// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

// BillingRepository 账单仓储
type BillingRepository struct {
	db *gorm.DB
}

// NewBillingRepository 创建账单仓储
func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// Create 创建账单
func (r *BillingRepository) Create(ctx context.Context, billing *models.Billing) error {
	return r.db.WithContext(ctx).Create(billing).Error
}

// GetByID 根据 ID 获取账单
func (r *BillingRepository) GetByID(ctx context.Context, id int64) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.WithContext(ctx).First(&billing, id).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

// GetByIDWithDetails 根据 ID 获取账单（包含关联信息）
func (r *BillingRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.WithContext(ctx).
		Preload("Reservation.Guest").
		Preload("Reservation.RoomType").
		Preload("Payments.SubMethod.Method").
		First(&billing, id).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

// GetByReservationID 根据预订 ID 获取账单
func (r *BillingRepository) GetByReservationID(ctx context.Context, reservationID int64) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&billing).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

// GetByBillingNo 根据账单号获取账单
func (r *BillingRepository) GetByBillingNo(ctx context.Context, billingNo string) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.WithContext(ctx).
		Where("billing_no = ?", billingNo).
		First(&billing).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

// Update 更新账单
func (r *BillingRepository) Update(ctx context.Context, billing *models.Billing) error {
	return r.db.WithContext(ctx).Save(billing).Error
}

// UpdateFields 更新指定字段
func (r *BillingRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Billing{}).Where("id = ?", id).Updates(fields).Error
}

// List 获取账单列表
func (r *BillingRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Billing, int64, error) {
	var billings []*models.Billing
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Billing{})

	// 应用过滤条件
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if billingNo, ok := filters["billing_no"].(string); ok && billingNo != "" {
		query = query.Where("billing_no LIKE ?", "%"+billingNo+"%")
	}
	if reservationID, ok := filters["reservation_id"].(int64); ok && reservationID > 0 {
		query = query.Where("reservation_id = ?", reservationID)
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("created_at >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("created_at < ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Reservation.Guest").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&billings).Error; err != nil {
		return nil, 0, err
	}

	return billings, total, nil
}

// SumOutstanding 统计未结清账单的应收总额
func (r *BillingRepository) SumOutstanding(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Billing{}).
		Where("status IN ?", []string{models.BillingStatusOpen, models.BillingStatusPartiallyPaid}).
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").
		Row().Scan(&sum)
	return sum, err
}

// PaymentRepository 支付记录仓储
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付记录仓储
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create 创建支付记录
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("SubMethod.Method").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByPaymentNo 根据支付单号获取支付记录
func (r *PaymentRepository) GetByPaymentNo(ctx context.Context, paymentNo string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("payment_no = ?", paymentNo).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByBilling 获取账单的支付记录列表
func (r *PaymentRepository) ListByBilling(ctx context.Context, billingID int64) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Preload("SubMethod.Method").
		Preload("ReceivedBy").
		Where("billing_id = ?", billingID).
		Order("paid_at ASC").
		Find(&payments).Error
	return payments, err
}

// List 获取支付记录列表
func (r *PaymentRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})

	if billingID, ok := filters["billing_id"].(int64); ok && billingID > 0 {
		query = query.Where("billing_id = ?", billingID)
	}
	if subMethodID, ok := filters["sub_method_id"].(int64); ok && subMethodID > 0 {
		query = query.Where("sub_method_id = ?", subMethodID)
	}
	if paymentNo, ok := filters["payment_no"].(string); ok && paymentNo != "" {
		query = query.Where("payment_no = ?", paymentNo)
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("paid_at >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("paid_at < ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("SubMethod.Method").
		Order("paid_at DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// SumAmount 统计累计实收金额
func (r *PaymentRepository) SumAmount(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&sum)
	return sum, err
}

// SumAmountBetween 统计区间内的实收金额
func (r *PaymentRepository) SumAmountBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&sum)
	return sum, err
}

// SumByMethodBetween 按支付方式统计区间内的实收金额
func (r *PaymentRepository) SumByMethodBetween(ctx context.Context, start, end time.Time) (map[string]float64, error) {
	type row struct {
		Code  string
		Total float64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("payment_methods.code AS code, COALESCE(SUM(payments.amount), 0) AS total").
		Joins("JOIN payment_sub_methods ON payment_sub_methods.id = payments.sub_method_id").
		Joins("JOIN payment_methods ON payment_methods.id = payment_sub_methods.method_id").
		Where("payments.paid_at >= ? AND payments.paid_at < ?", start, end).
		Group("payment_methods.code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64, len(rows))
	for _, r := range rows {
		result[r.Code] = r.Total
	}
	return result, nil
}

// PaymentMethodRepository 支付方式仓储
type PaymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository 创建支付方式仓储
func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// ListActive 获取启用的支付方式列表（含子方式）
func (r *PaymentMethodRepository) ListActive(ctx context.Context) ([]*models.PaymentMethod, error) {
	var methods []*models.PaymentMethod
	err := r.db.WithContext(ctx).
		Preload("SubMethods", "is_active = ?", true).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&methods).Error
	return methods, err
}

// GetSubMethodByID 根据 ID 获取支付子方式
func (r *PaymentMethodRepository) GetSubMethodByID(ctx context.Context, id int64) (*models.PaymentSubMethod, error) {
	var subMethod models.PaymentSubMethod
	err := r.db.WithContext(ctx).
		Preload("Method").
		First(&subMethod, id).Error
	if err != nil {
		return nil, err
	}
	return &subMethod, nil
}
