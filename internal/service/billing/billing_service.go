// Package billing 提供账单与收款服务
package billing

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// BillingService 账单服务
type BillingService struct {
	billingRepo *repository.BillingRepository
	paymentRepo *repository.PaymentRepository
}

// NewBillingService 创建账单服务
func NewBillingService(
	billingRepo *repository.BillingRepository,
	paymentRepo *repository.PaymentRepository,
) *BillingService {
	return &BillingService{
		billingRepo: billingRepo,
		paymentRepo: paymentRepo,
	}
}

// VoidBillingRequest 作废账单请求
type VoidBillingRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// GetBilling 查询账单详情
func (s *BillingService) GetBilling(ctx context.Context, id int64) (*models.Billing, error) {
	billing, err := s.billingRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBillingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return billing, nil
}

// GetBillingByReservation 按预订查询账单
func (s *BillingService) GetBillingByReservation(ctx context.Context, reservationID int64) (*models.Billing, error) {
	billing, err := s.billingRepo.GetByReservationID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBillingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return billing, nil
}

// ListBillings 分页查询账单
func (s *BillingService) ListBillings(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Billing, int64, error) {
	billings, total, err := s.billingRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return billings, total, nil
}

// VoidBilling 作废账单
// 已有收款的账单不允许作废，需先退款处理
func (s *BillingService) VoidBilling(ctx context.Context, id int64, reason string) (*models.Billing, error) {
	billing, err := s.billingRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBillingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	switch billing.Status {
	case models.BillingStatusVoided:
		return nil, errors.ErrBillingVoided
	case models.BillingStatusSettled:
		return nil, errors.ErrBillingSettled
	}
	if billing.PaidAmount > 0 {
		return nil, errors.ErrInvalidParams.WithMessage("账单已有收款，不能作废")
	}

	now := time.Now()
	if err := s.billingRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status":      models.BillingStatusVoided,
		"voided_at":   now,
		"void_reason": reason,
	}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	billing.Status = models.BillingStatusVoided
	billing.VoidedAt = &now
	billing.VoidReason = &reason

	logger.Info("账单已作废",
		zap.String("billing_no", billing.BillingNo),
		zap.String("reason", reason))
	return billing, nil
}
