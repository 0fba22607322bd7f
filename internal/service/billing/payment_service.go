package billing

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/common/metrics"
	"github.com/dmvillareal/hotel-backoffice/internal/common/utils"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// PaymentService 收款服务
// 收款与账单余额更新在同一事务内完成
type PaymentService struct {
	db          *gorm.DB
	billingRepo *repository.BillingRepository
	paymentRepo *repository.PaymentRepository
	methodRepo  *repository.PaymentMethodRepository
}

// NewPaymentService 创建收款服务
func NewPaymentService(
	db *gorm.DB,
	billingRepo *repository.BillingRepository,
	paymentRepo *repository.PaymentRepository,
	methodRepo *repository.PaymentMethodRepository,
) *PaymentService {
	return &PaymentService{
		db:          db,
		billingRepo: billingRepo,
		paymentRepo: paymentRepo,
		methodRepo:  methodRepo,
	}
}

// RecordPaymentRequest 登记收款请求
type RecordPaymentRequest struct {
	BillingID   int64   `json:"billing_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	SubMethodID int64   `json:"sub_method_id" binding:"required"`
	ReferenceNo *string `json:"reference_no,omitempty" binding:"omitempty,max=100"`
	Remark      *string `json:"remark,omitempty" binding:"omitempty,max=255"`
}

// RecordPayment 登记收款
// 金额不得超过账单余额，收满自动结清
func (s *PaymentService) RecordPayment(ctx context.Context, req *RecordPaymentRequest, operatorID int64) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, errors.ErrPaymentAmountInvalid
	}

	subMethod, err := s.methodRepo.GetSubMethodByID(ctx, req.SubMethodID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentMethodError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !subMethod.IsActive {
		return nil, errors.ErrPaymentMethodError
	}

	var payment models.Payment

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var billing models.Billing
		if txErr := tx.First(&billing, req.BillingID).Error; txErr != nil {
			if txErr == gorm.ErrRecordNotFound {
				return errors.ErrBillingNotFound
			}
			return errors.ErrDatabaseError.WithError(txErr)
		}

		switch billing.Status {
		case models.BillingStatusVoided:
			return errors.ErrBillingVoided
		case models.BillingStatusSettled:
			return errors.ErrBillingSettled
		}
		if req.Amount > billing.Balance() {
			return errors.ErrPaymentExceedsDue
		}

		payment = models.Payment{
			PaymentNo:    utils.GenerateOrderNo("P"),
			BillingID:    billing.ID,
			Amount:       req.Amount,
			SubMethodID:  req.SubMethodID,
			ReferenceNo:  req.ReferenceNo,
			ReceivedByID: operatorID,
			Remark:       req.Remark,
			PaidAt:       time.Now(),
		}
		if txErr := tx.Create(&payment).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		paid := billing.PaidAmount + req.Amount
		status := models.BillingStatusPartiallyPaid
		if paid >= billing.TotalAmount {
			status = models.BillingStatusSettled
		}
		if txErr := tx.Model(&models.Billing{}).Where("id = ?", billing.ID).
			Updates(map[string]interface{}{
				"paid_amount": paid,
				"status":      status,
			}).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordPayment(subMethod.Code, "success")
	}

	logger.Info("收款已登记",
		zap.String("payment_no", payment.PaymentNo),
		zap.Float64("amount", payment.Amount))
	return &payment, nil
}

// GetPayment 查询收款记录
func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return payment, nil
}

// ListPayments 分页查询收款记录
func (s *PaymentService) ListPayments(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Payment, int64, error) {
	payments, total, err := s.paymentRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return payments, total, nil
}

// ListByBilling 查询账单下的收款记录
func (s *PaymentService) ListByBilling(ctx context.Context, billingID int64) ([]*models.Payment, error) {
	payments, err := s.paymentRepo.ListByBilling(ctx, billingID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return payments, nil
}

// ListPaymentMethods 查询可用支付方式
func (s *PaymentService) ListPaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error) {
	methods, err := s.methodRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return methods, nil
}
