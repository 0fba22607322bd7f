// Package billing 账单与收款服务单元测试
package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Guest{},
		&models.RoomType{},
		&models.Reservation{},
		&models.Billing{},
		&models.PaymentMethod{},
		&models.PaymentSubMethod{},
		&models.Payment{},
		&models.User{},
	)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.PaymentMethod{Code: models.PaymentMethodCash, Name: "现金", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.PaymentSubMethod{MethodID: 1, Code: "cash", Name: "现金", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.PaymentSubMethod{MethodID: 1, Code: "voucher", Name: "代金券", IsActive: false}).Error)

	return db
}

var billingSeq int

func makeBilling(t *testing.T, db *gorm.DB, total, paid float64, status string) *models.Billing {
	billingSeq++
	reservation := &models.Reservation{
		ReservationNo: fmt.Sprintf("R20260829P%04d", billingSeq),
		GuestID:       1,
		RoomTypeID:    1,
		CheckInDate:   time.Now().AddDate(0, 0, 1),
		CheckOutDate:  time.Now().AddDate(0, 0, 3),
		GuestCount:    1,
		Status:        models.ReservationStatusConfirmed,
		CheckInCode:   fmt.Sprintf("CcodeP00000000%04d", billingSeq),
	}
	require.NoError(t, db.Create(reservation).Error)

	billing := &models.Billing{
		BillingNo:     fmt.Sprintf("B20260829P%04d", billingSeq),
		ReservationID: reservation.ID,
		RoomSubtotal:  total,
		TotalAmount:   total,
		PaidAmount:    paid,
		Status:        status,
	}
	require.NoError(t, db.Create(billing).Error)
	return billing
}

func newTestBillingService(db *gorm.DB) *BillingService {
	return NewBillingService(
		repository.NewBillingRepository(db),
		repository.NewPaymentRepository(db),
	)
}

func TestBillingService_VoidBilling(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := newTestBillingService(db)
	ctx := context.Background()

	billing := makeBilling(t, db, 776, 0, models.BillingStatusOpen)

	got, err := svc.VoidBilling(ctx, billing.ID, "预订信息录入错误")
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusVoided, got.Status)
	require.NotNil(t, got.VoidReason)
	assert.Equal(t, "预订信息录入错误", *got.VoidReason)

	// 重复作废
	_, err = svc.VoidBilling(ctx, billing.ID, "再作废一次")
	assert.Equal(t, errors.ErrBillingVoided.Code, errors.GetAppError(err).Code)

	// 已结清的账单不能作废
	settled := makeBilling(t, db, 388, 388, models.BillingStatusSettled)
	_, err = svc.VoidBilling(ctx, settled.ID, "测试")
	assert.Equal(t, errors.ErrBillingSettled.Code, errors.GetAppError(err).Code)

	// 已有收款的账单不能作废
	partiallyPaid := makeBilling(t, db, 776, 300, models.BillingStatusPartiallyPaid)
	_, err = svc.VoidBilling(ctx, partiallyPaid.ID, "测试")
	appErr := errors.GetAppError(err)
	assert.Equal(t, errors.ErrInvalidParams.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "已有收款")

	// 不存在的账单
	_, err = svc.VoidBilling(ctx, 99999, "测试")
	assert.Equal(t, errors.ErrBillingNotFound.Code, errors.GetAppError(err).Code)
}

func TestBillingService_GetBillingByReservation(t *testing.T) {
	db := setupBillingTestDB(t)
	svc := newTestBillingService(db)
	ctx := context.Background()

	billing := makeBilling(t, db, 776, 0, models.BillingStatusOpen)

	got, err := svc.GetBillingByReservation(ctx, billing.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, billing.BillingNo, got.BillingNo)

	_, err = svc.GetBillingByReservation(ctx, 99999)
	assert.Equal(t, errors.ErrBillingNotFound.Code, errors.GetAppError(err).Code)
}
