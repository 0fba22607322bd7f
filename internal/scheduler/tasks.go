// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dmvillareal/hotel-backoffice/internal/common/config"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/common/metrics"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	reservationService "github.com/dmvillareal/hotel-backoffice/internal/service/reservation"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	reservationRepo    *repository.ReservationRepository
	operationLogRepo   *repository.OperationLogRepository
	reservationService *reservationService.ReservationService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	reservationRepo *repository.ReservationRepository,
	operationLogRepo *repository.OperationLogRepository,
	reservationSvc *reservationService.ReservationService,
) *TaskHandler {
	return &TaskHandler{
		reservationRepo:    reservationRepo,
		operationLogRepo:   operationLogRepo,
		reservationService: reservationSvc,
	}
}

// ExpirePendingReservations 过期超时未确认的预订
// 超时阈值读取配置，逐单标记并释放房间占用
func (h *TaskHandler) ExpirePendingReservations(ctx context.Context) error {
	cfg := config.Get().Business.Reservation
	ttl := time.Duration(cfg.PendingExpireHours) * time.Hour

	processed, err := h.reservationService.ProcessExpiredPending(ctx, ttl, 100)
	if err != nil {
		return err
	}

	if processed > 0 {
		logger.Info("过期预订清理完成", zap.Int("processed", processed))
	}
	return nil
}

// RefreshOccupancyMetrics 刷新在住与待确认指标
func (h *TaskHandler) RefreshOccupancyMetrics(ctx context.Context) error {
	m := metrics.GetMetrics()
	if m == nil {
		return nil
	}

	occupied, err := h.reservationRepo.CountOccupiedRooms(ctx, time.Now())
	if err != nil {
		return err
	}
	m.SetOccupiedRooms(float64(occupied))

	pending, err := h.reservationRepo.CountByStatus(ctx, models.ReservationStatusPending)
	if err != nil {
		return err
	}
	m.SetPendingReservations(float64(pending))

	return nil
}

// CleanupOperationLogs 清理过期操作日志
// 保留90天
func (h *TaskHandler) CleanupOperationLogs(ctx context.Context) error {
	before := time.Now().AddDate(0, 0, -90)

	deleted, err := h.operationLogRepo.DeleteBefore(ctx, before)
	if err != nil {
		return err
	}

	if deleted > 0 {
		logger.Info("操作日志清理完成", zap.Int64("deleted", deleted))
	}
	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	interval := time.Duration(config.Get().Business.Reservation.ExpireCheckInterval) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	// 周期过期待确认预订
	scheduler.AddTask("ExpirePendingReservations", interval, handler.ExpirePendingReservations)

	// 每分钟刷新占用指标
	scheduler.AddTask("RefreshOccupancyMetrics", 1*time.Minute, handler.RefreshOccupancyMetrics)

	// 每天清理过期操作日志
	scheduler.AddTask("CleanupOperationLogs", 24*time.Hour, handler.CleanupOperationLogs)
}
