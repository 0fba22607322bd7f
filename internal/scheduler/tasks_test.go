package scheduler

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
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	reservationService "github.com/dmvillareal/hotel-backoffice/internal/service/reservation"
	"github.com/dmvillareal/hotel-backoffice/pkg/sms"
)

func setupTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.GuestIDType{},
		&models.Guest{},
		&models.RoomType{},
		&models.Room{},
		&models.Reservation{},
		&models.ReservedRoom{},
		&models.Billing{},
		&models.User{},
		&models.OperationLog{},
	)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.GuestIDType{Code: models.IDTypePassport, Name: "护照", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Guest{
		FirstName: "伟", LastName: "陈", Phone: "13900139001", IDTypeID: 1,
		IDNumberEncrypted: "enc-task", IDNumberHash: "hash-task",
	}).Error)
	require.NoError(t, db.Create(&models.RoomType{Name: "大床房", NightlyRate: 388, Capacity: 2}).Error)
	require.NoError(t, db.Create(&models.Room{RoomNo: "301", Floor: 3, RoomTypeID: 1, Status: models.RoomStatusAvailable}).Error)

	return db
}

func newTestTaskHandler(db *gorm.DB) *TaskHandler {
	reservationRepo := repository.NewReservationRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	reservationSvc := reservationService.NewReservationService(db, reservationRepo, billingRepo, sms.NewMockSender())
	return NewTaskHandler(reservationRepo, repository.NewOperationLogRepository(db), reservationSvc)
}

var taskSeq int

func seedTaskReservation(t *testing.T, db *gorm.DB, status string, createdAgo time.Duration) *models.Reservation {
	taskSeq++
	now := time.Now()
	reservation := &models.Reservation{
		ReservationNo: fmt.Sprintf("R20260829T%04d", taskSeq),
		GuestID:       1,
		RoomTypeID:    1,
		CheckInDate:   now.AddDate(0, 0, 1),
		CheckOutDate:  now.AddDate(0, 0, 3),
		GuestCount:    1,
		Status:        status,
		CheckInCode:   fmt.Sprintf("CcodeT00000000%04d", taskSeq),
	}
	require.NoError(t, db.Create(reservation).Error)
	require.NoError(t, db.Create(&models.ReservedRoom{
		ReservationID: reservation.ID,
		RoomID:        1,
		CheckInDate:   reservation.CheckInDate,
		CheckOutDate:  reservation.CheckOutDate,
	}).Error)

	if createdAgo > 0 {
		require.NoError(t, db.Model(&models.Reservation{}).
			Where("id = ?", reservation.ID).
			Update("created_at", now.Add(-createdAgo)).Error)
	}
	return reservation
}

func TestTaskHandler_ExpirePendingReservations(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTestTaskHandler(db)
	ctx := context.Background()

	stale := seedTaskReservation(t, db, models.ReservationStatusPending, 48*time.Hour)
	fresh := seedTaskReservation(t, db, models.ReservationStatusPending, 0)

	require.NoError(t, handler.ExpirePendingReservations(ctx))

	var got models.Reservation
	require.NoError(t, db.First(&got, stale.ID).Error)
	assert.Equal(t, models.ReservationStatusExpired, got.Status)

	var released int64
	require.NoError(t, db.Model(&models.ReservedRoom{}).
		Where("reservation_id = ? AND released = ?", stale.ID, true).
		Count(&released).Error)
	assert.Equal(t, int64(1), released)

	// 未超时的不受影响
	require.NoError(t, db.First(&got, fresh.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, got.Status)

	// 幂等，重复执行无新处理
	require.NoError(t, handler.ExpirePendingReservations(ctx))
	require.NoError(t, db.First(&got, fresh.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, got.Status)
}

func TestTaskHandler_CleanupOperationLogs(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTestTaskHandler(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{
		Username: "admin01", PasswordHash: "hash", Name: "张敏",
		Role: models.RoleAdmin, Status: models.UserStatusActive,
	}).Error)

	logs := []*models.OperationLog{
		{UserID: 1, Module: "reservation", Action: "create"},
		{UserID: 1, Module: "billing", Action: "void"},
	}
	for _, operationLog := range logs {
		require.NoError(t, db.Create(operationLog).Error)
	}
	// 其中一条已超出保留期
	require.NoError(t, db.Model(&models.OperationLog{}).
		Where("id = ?", logs[0].ID).
		Update("created_at", time.Now().AddDate(0, 0, -100)).Error)

	require.NoError(t, handler.CleanupOperationLogs(ctx))

	var remaining int64
	require.NoError(t, db.Model(&models.OperationLog{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	var kept models.OperationLog
	require.NoError(t, db.First(&kept).Error)
	assert.Equal(t, "billing", kept.Module)
}

func TestTaskHandler_RefreshOccupancyMetrics(t *testing.T) {
	db := setupTaskTestDB(t)
	handler := newTestTaskHandler(db)
	ctx := context.Background()

	seedTaskReservation(t, db, models.ReservationStatusCheckedIn, 0)
	seedTaskReservation(t, db, models.ReservationStatusPending, 0)

	require.NoError(t, handler.RefreshOccupancyMetrics(ctx))
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()

	var ran int64
	s.AddTask("noop", time.Hour, func(ctx context.Context) error {
		ran++
		return nil
	})

	s.Start()
	s.Stop()

	// 启动时立即执行一次
	assert.Equal(t, int64(1), ran)
}
