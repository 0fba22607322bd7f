package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/common/metrics"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	"github.com/dmvillareal/hotel-backoffice/pkg/sms"
)

// ReservationService 预订生命周期服务
// 状态机：pending → confirmed → checked_in → checked_out
// pending/confirmed 可转 cancelled，超时 pending 转 expired
type ReservationService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	billingRepo     *repository.BillingRepository
	smsSender       sms.Sender
}

// NewReservationService 创建预订生命周期服务
func NewReservationService(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	billingRepo *repository.BillingRepository,
	smsSender sms.Sender,
) *ReservationService {
	return &ReservationService{
		db:              db,
		reservationRepo: reservationRepo,
		billingRepo:     billingRepo,
		smsSender:       smsSender,
	}
}

// CancelReservationRequest 取消预订请求
type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// GetReservation 查询预订详情
func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservation, nil
}

// GetReservationByNo 按预订号查询
func (s *ReservationService) GetReservationByNo(ctx context.Context, reservationNo string) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByReservationNo(ctx, reservationNo)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservation, nil
}

// ListReservations 分页查询预订
func (s *ReservationService) ListReservations(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Reservation, int64, error) {
	reservations, total, err := s.reservationRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return reservations, total, nil
}

// ListArrivalsToday 查询今日待抵店预订
func (s *ReservationService) ListArrivalsToday(ctx context.Context) ([]*models.Reservation, error) {
	reservations, err := s.reservationRepo.ListArrivalsToday(ctx, time.Now())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservations, nil
}

// ListOverdueStays 查询逾期未退房的在住预订，前台跟进
func (s *ReservationService) ListOverdueStays(ctx context.Context) ([]*models.Reservation, error) {
	reservations, err := s.reservationRepo.ListOverdueStays(ctx, time.Now())
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservations, nil
}

// Confirm 确认预订
// 仅 pending 可确认，且首付款必须已到账
func (s *ReservationService) Confirm(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.Status != models.ReservationStatusPending {
		return nil, errors.ErrReservationStatusError
	}

	billing, err := s.billingRepo.GetByReservationID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBillingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if billing.Status == models.BillingStatusVoided || billing.PaidAmount <= 0 {
		return nil, errors.ErrReservationStatusError.WithMessage("首付款未到账，不能确认")
	}

	now := time.Now()
	if err := s.reservationRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status":       models.ReservationStatusConfirmed,
		"confirmed_at": now,
	}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	reservation.Status = models.ReservationStatusConfirmed
	reservation.ConfirmedAt = &now

	if m := metrics.GetMetrics(); m != nil {
		m.RecordReservation(models.ReservationStatusConfirmed)
	}

	logger.Info("预订已确认", logger.ReservationNo(reservation.ReservationNo))
	return reservation, nil
}

// CheckIn 办理入住
// 仅已确认的预订可入住
func (s *ReservationService) CheckIn(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.checkIn(ctx, reservation)
}

// CheckInByCode 扫码办理入住
func (s *ReservationService) CheckInByCode(ctx context.Context, code string) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByCheckInCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCheckInCodeInvalid
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.checkIn(ctx, reservation)
}

func (s *ReservationService) checkIn(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	switch reservation.Status {
	case models.ReservationStatusConfirmed:
	case models.ReservationStatusPending:
		return nil, errors.ErrReservationStatusError.WithMessage("预订尚未确认，不能入住")
	case models.ReservationStatusCancelled:
		return nil, errors.ErrReservationCancelled
	case models.ReservationStatusExpired:
		return nil, errors.ErrReservationExpired
	default:
		return nil, errors.ErrReservationStatusError
	}

	now := time.Now()
	if err := s.reservationRepo.UpdateFields(ctx, reservation.ID, map[string]interface{}{
		"status":        models.ReservationStatusCheckedIn,
		"checked_in_at": now,
	}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	reservation.Status = models.ReservationStatusCheckedIn
	reservation.CheckedInAt = &now

	if m := metrics.GetMetrics(); m != nil {
		m.RecordReservation(models.ReservationStatusCheckedIn)
	}

	logger.Info("预订已入住", logger.ReservationNo(reservation.ReservationNo))
	return reservation, nil
}

// CheckOut 办理退房
// 账单未结清不允许退房，退房释放房间占用
func (s *ReservationService) CheckOut(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.Status != models.ReservationStatusCheckedIn {
		return nil, errors.ErrReservationStatusError
	}

	billing, err := s.billingRepo.GetByReservationID(ctx, id)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if billing != nil && billing.Status != models.BillingStatusVoided && billing.Balance() > 0 {
		return nil, errors.ErrReservationStatusError.WithMessage("账单未结清，不能退房")
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(&models.Reservation{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":         models.ReservationStatusCheckedOut,
				"checked_out_at": now,
			}).Error; txErr != nil {
			return txErr
		}
		return tx.Model(&models.ReservedRoom{}).
			Where("reservation_id = ?", id).
			Update("released", true).Error
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	reservation.Status = models.ReservationStatusCheckedOut
	reservation.CheckedOutAt = &now

	if m := metrics.GetMetrics(); m != nil {
		m.RecordReservation(models.ReservationStatusCheckedOut)
	}

	logger.Info("预订已退房", logger.ReservationNo(reservation.ReservationNo))
	return reservation, nil
}

// Cancel 取消预订
// 仅 pending/confirmed 可取消，取消释放房间占用
func (s *ReservationService) Cancel(ctx context.Context, id int64, reason string) (*models.Reservation, error) {
	reservation, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	switch reservation.Status {
	case models.ReservationStatusPending, models.ReservationStatusConfirmed:
	case models.ReservationStatusCancelled:
		return nil, errors.ErrReservationCancelled
	default:
		return nil, errors.ErrReservationStatusError
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(&models.Reservation{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":        models.ReservationStatusCancelled,
				"cancelled_at":  now,
				"cancel_reason": reason,
			}).Error; txErr != nil {
			return txErr
		}
		return tx.Model(&models.ReservedRoom{}).
			Where("reservation_id = ?", id).
			Update("released", true).Error
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	reservation.Status = models.ReservationStatusCancelled
	reservation.CancelledAt = &now
	reservation.CancelReason = &reason

	if m := metrics.GetMetrics(); m != nil {
		m.RecordReservation(models.ReservationStatusCancelled)
	}

	if s.smsSender != nil && reservation.Guest != nil && reservation.Guest.Phone != "" {
		if smsErr := s.smsSender.SendCancellationNotify(ctx, reservation.Guest.Phone, reservation.ReservationNo); smsErr != nil {
			logger.Warn("发送取消通知短信失败",
				logger.ReservationNo(reservation.ReservationNo),
				zap.Error(smsErr))
		}
	}

	logger.Info("预订已取消",
		logger.ReservationNo(reservation.ReservationNo),
		zap.String("reason", reason))
	return reservation, nil
}

// ProcessExpiredPending 处理超时未确认的预订
// 由调度任务周期调用，逐单标记过期并释放房间
func (s *ReservationService) ProcessExpiredPending(ctx context.Context, ttl time.Duration, limit int) (int, error) {
	before := time.Now().Add(-ttl)
	expired, err := s.reservationRepo.ListExpiredPending(ctx, before, limit)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	processed := 0
	for _, reservation := range expired {
		now := time.Now()
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// 状态条件防止与人工操作竞争
			result := tx.Model(&models.Reservation{}).
				Where("id = ? AND status = ?", reservation.ID, models.ReservationStatusPending).
				Updates(map[string]interface{}{
					"status":     models.ReservationStatusExpired,
					"expired_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil
			}
			return tx.Model(&models.ReservedRoom{}).
				Where("reservation_id = ?", reservation.ID).
				Update("released", true).Error
		})
		if err != nil {
			logger.Error("预订过期处理失败",
				logger.ReservationNo(reservation.ReservationNo),
				zap.Error(err))
			continue
		}
		processed++

		if m := metrics.GetMetrics(); m != nil {
			m.RecordReservation(models.ReservationStatusExpired)
		}
	}

	if processed > 0 {
		logger.Info("预订过期处理完成", zap.Int("count", processed))
	}
	return processed, nil
}

func (s *ReservationService) getForUpdate(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservation, nil
}
