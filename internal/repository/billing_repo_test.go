// Package repository 账单与支付仓储单元测试
package repository

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

	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.GuestIDType{},
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

	// 支付方式：现金、银行卡
	cash := &models.PaymentMethod{Code: models.PaymentMethodCash, Name: "现金", IsActive: true}
	require.NoError(t, db.Create(cash).Error)
	card := &models.PaymentMethod{Code: models.PaymentMethodCard, Name: "银行卡", IsActive: true}
	require.NoError(t, db.Create(card).Error)

	require.NoError(t, db.Create(&models.PaymentSubMethod{MethodID: cash.ID, Code: "cash", Name: "现金", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.PaymentSubMethod{MethodID: card.ID, Code: "visa", Name: "Visa", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.PaymentSubMethod{MethodID: card.ID, Code: "master", Name: "Master", IsActive: false}).Error)

	return db
}

var billingSeq int

func createTestBilling(t *testing.T, db *gorm.DB, total, paid float64, status string) *models.Billing {
	billingSeq++
	reservation := &models.Reservation{
		ReservationNo: fmt.Sprintf("R20260829B%04d", billingSeq),
		GuestID:       1,
		RoomTypeID:    1,
		CheckInDate:   time.Now().AddDate(0, 0, 1),
		CheckOutDate:  time.Now().AddDate(0, 0, 3),
		GuestCount:    1,
		Status:        models.ReservationStatusConfirmed,
		CheckInCode:   fmt.Sprintf("CcodeB00000000%04d", billingSeq),
	}
	require.NoError(t, db.Create(reservation).Error)

	billing := &models.Billing{
		BillingNo:     fmt.Sprintf("B20260829%04d", billingSeq),
		ReservationID: reservation.ID,
		RoomSubtotal:  total,
		TotalAmount:   total,
		PaidAmount:    paid,
		Status:        status,
	}
	require.NoError(t, db.Create(billing).Error)
	return billing
}

func TestBillingRepository_GetByReservationID(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewBillingRepository(db)
	ctx := context.Background()

	billing := createTestBilling(t, db, 776, 0, models.BillingStatusOpen)

	got, err := repo.GetByReservationID(ctx, billing.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, billing.BillingNo, got.BillingNo)
	assert.Equal(t, 776.0, got.Balance())

	_, err = repo.GetByReservationID(ctx, 99999)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestBillingRepository_List(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewBillingRepository(db)
	ctx := context.Background()

	createTestBilling(t, db, 776, 0, models.BillingStatusOpen)
	createTestBilling(t, db, 388, 388, models.BillingStatusSettled)

	_, total, err := repo.List(ctx, 0, 10, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	billings, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
		"status": models.BillingStatusSettled,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, billings, 1)
	assert.Equal(t, models.BillingStatusSettled, billings[0].Status)
}

func TestBillingRepository_SumOutstanding(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewBillingRepository(db)
	ctx := context.Background()

	createTestBilling(t, db, 776, 300, models.BillingStatusPartiallyPaid)
	createTestBilling(t, db, 388, 0, models.BillingStatusOpen)
	createTestBilling(t, db, 500, 500, models.BillingStatusSettled)
	createTestBilling(t, db, 200, 0, models.BillingStatusVoided)

	// 只统计 open 和 partially_paid
	sum, err := repo.SumOutstanding(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 864.0, sum, 0.001)
}

func TestPaymentRepository_SumAmountBetween(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	billing := createTestBilling(t, db, 1000, 0, models.BillingStatusOpen)

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)
	payments := []*models.Payment{
		{PaymentNo: "P001", BillingID: billing.ID, Amount: 300, SubMethodID: 1, ReceivedByID: 1, PaidAt: base},
		{PaymentNo: "P002", BillingID: billing.ID, Amount: 200, SubMethodID: 2, ReceivedByID: 1, PaidAt: base.Add(time.Hour)},
		{PaymentNo: "P003", BillingID: billing.ID, Amount: 500, SubMethodID: 1, ReceivedByID: 1, PaidAt: base.AddDate(0, 0, 1)},
	}
	for _, p := range payments {
		require.NoError(t, repo.Create(ctx, p))
	}

	dayStart := time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.Add(24 * time.Hour)

	sum, err := repo.SumAmountBetween(ctx, dayStart, dayEnd)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, sum, 0.001)

	byMethod, err := repo.SumByMethodBetween(ctx, dayStart, dayEnd)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, byMethod[models.PaymentMethodCash], 0.001)
	assert.InDelta(t, 200.0, byMethod[models.PaymentMethodCard], 0.001)

	// 不限区间的累计实收
	total, err := repo.SumAmount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, total, 0.001)
}

func TestPaymentRepository_ListByBilling(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	billing := createTestBilling(t, db, 1000, 0, models.BillingStatusOpen)

	first := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)
	require.NoError(t, repo.Create(ctx, &models.Payment{
		PaymentNo: "P101", BillingID: billing.ID, Amount: 300, SubMethodID: 1, ReceivedByID: 1, PaidAt: first.Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &models.Payment{
		PaymentNo: "P102", BillingID: billing.ID, Amount: 200, SubMethodID: 2, ReceivedByID: 1, PaidAt: first,
	}))

	// 按支付时间升序
	payments, err := repo.ListByBilling(ctx, billing.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "P102", payments[0].PaymentNo)
	require.NotNil(t, payments[0].SubMethod)
	assert.Equal(t, "visa", payments[0].SubMethod.Code)
}

func TestPaymentMethodRepository_ListActive(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewPaymentMethodRepository(db)
	ctx := context.Background()

	methods, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	// 停用的子方式不返回
	for _, m := range methods {
		if m.Code == models.PaymentMethodCard {
			require.Len(t, m.SubMethods, 1)
			assert.Equal(t, "visa", m.SubMethods[0].Code)
		}
	}
}

func TestPaymentMethodRepository_GetSubMethodByID(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewPaymentMethodRepository(db)
	ctx := context.Background()

	subMethod, err := repo.GetSubMethodByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "visa", subMethod.Code)
	require.NotNil(t, subMethod.Method)
	assert.Equal(t, models.PaymentMethodCard, subMethod.Method.Code)

	_, err = repo.GetSubMethodByID(ctx, 99999)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}
