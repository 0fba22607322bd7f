package admin

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dmvillareal/hotel-backoffice/internal/common/cache"
	"github.com/dmvillareal/hotel-backoffice/internal/common/config"
	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// DashboardService 运营看板服务
// 聚合结果走 Redis 短时缓存，缓存不可用时直接回源
type DashboardService struct {
	guestRepo       *repository.GuestRepository
	roomRepo        *repository.RoomRepository
	reservationRepo *repository.ReservationRepository
	billingRepo     *repository.BillingRepository
	paymentRepo     *repository.PaymentRepository
	addonOrderRepo  *repository.AddonOrderRepository
}

// NewDashboardService 创建运营看板服务
func NewDashboardService(
	guestRepo *repository.GuestRepository,
	roomRepo *repository.RoomRepository,
	reservationRepo *repository.ReservationRepository,
	billingRepo *repository.BillingRepository,
	paymentRepo *repository.PaymentRepository,
	addonOrderRepo *repository.AddonOrderRepository,
) *DashboardService {
	return &DashboardService{
		guestRepo:       guestRepo,
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		billingRepo:     billingRepo,
		paymentRepo:     paymentRepo,
		addonOrderRepo:  addonOrderRepo,
	}
}

// DashboardOverview 运营总览
type DashboardOverview struct {
	TotalRooms           int64              `json:"total_rooms"`
	OccupiedRooms        int64              `json:"occupied_rooms"`
	OccupancyRate        float64            `json:"occupancy_rate"`
	TotalGuests          int64              `json:"total_guests"`
	NewGuestsToday       int64              `json:"new_guests_today"`
	PendingReservations  int64              `json:"pending_reservations"`
	ReservationsByStatus map[string]int64   `json:"reservations_by_status"`
	ArrivalsToday        int64              `json:"arrivals_today"`
	DeparturesToday      int64              `json:"departures_today"`
	NewReservationsToday int64              `json:"new_reservations_today"`
	OutstandingAmount    float64            `json:"outstanding_amount"`
	RevenueToday         float64            `json:"revenue_today"`
	RevenueThisMonth     float64            `json:"revenue_this_month"`
	RevenueTotal         float64            `json:"revenue_total"`
	RevenueByMethod      map[string]float64 `json:"revenue_by_method"`
	GeneratedAt          time.Time          `json:"generated_at"`
}

// RevenuePoint 营收序列点
type RevenuePoint struct {
	Date        string  `json:"date"`
	Payments    float64 `json:"payments"`
	AddonOrders float64 `json:"addon_orders"`
}

// GetOverview 查询运营总览
func (s *DashboardService) GetOverview(ctx context.Context) (*DashboardOverview, error) {
	cacheKey := cache.BuildKey(cache.KeyPrefixDashboard, "overview")

	var cached DashboardOverview
	if err := cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	overview, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}

	ttl := config.Get().Business.Dashboard.CacheTTLDuration()
	if err := cache.Set(ctx, cacheKey, overview, ttl); err != nil {
		logger.Warn("看板缓存写入失败", zap.Error(err))
	}

	return overview, nil
}

func (s *DashboardService) buildOverview(ctx context.Context) (*DashboardOverview, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totalRooms, err := s.roomRepo.CountAll(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	occupied, err := s.reservationRepo.CountOccupiedRooms(ctx, now)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	totalGuests, err := s.guestRepo.CountAll(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	newGuests, err := s.guestRepo.CountCreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	byStatus, err := s.reservationRepo.CountGroupByStatus(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	arrivals, err := s.reservationRepo.ListArrivalsToday(ctx, now)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	departures, err := s.reservationRepo.CountDeparturesToday(ctx, dayStart)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	newToday, err := s.reservationRepo.CountCreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	outstanding, err := s.billingRepo.SumOutstanding(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	revenueToday, err := s.paymentRepo.SumAmountBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	revenueMonth, err := s.paymentRepo.SumAmountBetween(ctx, monthStart, dayEnd)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	revenueTotal, err := s.paymentRepo.SumAmount(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	byMethod, err := s.paymentRepo.SumByMethodBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	rate := 0.0
	if totalRooms > 0 {
		rate = float64(occupied) / float64(totalRooms)
	}

	return &DashboardOverview{
		TotalRooms:           totalRooms,
		OccupiedRooms:        occupied,
		OccupancyRate:        rate,
		TotalGuests:          totalGuests,
		NewGuestsToday:       newGuests,
		PendingReservations:  byStatus[models.ReservationStatusPending],
		ReservationsByStatus: byStatus,
		ArrivalsToday:        int64(len(arrivals)),
		DeparturesToday:      departures,
		NewReservationsToday: newToday,
		OutstandingAmount:    outstanding,
		RevenueToday:         revenueToday,
		RevenueThisMonth:     revenueMonth,
		RevenueTotal:         revenueTotal,
		RevenueByMethod:      byMethod,
		GeneratedAt:          now,
	}, nil
}

// GetDailyRevenue 查询近 N 天营收序列
func (s *DashboardService) GetDailyRevenue(ctx context.Context, days int) ([]*RevenuePoint, error) {
	if days <= 0 || days > 90 {
		days = 14
	}

	cacheKey := cache.BuildKey(cache.KeyPrefixDashboard, "revenue:daily")
	if days == 14 {
		var cached []*RevenuePoint
		if err := cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	now := time.Now()
	points := make([]*RevenuePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.Add(24 * time.Hour)

		point, err := s.buildRevenuePoint(ctx, start, end, "2006-01-02")
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	if days == 14 {
		ttl := config.Get().Business.Dashboard.CacheTTLDuration()
		if err := cache.Set(ctx, cacheKey, points, ttl); err != nil {
			logger.Warn("看板缓存写入失败", zap.Error(err))
		}
	}

	return points, nil
}

// GetMonthlyRevenue 查询近 N 月营收序列
func (s *DashboardService) GetMonthlyRevenue(ctx context.Context, months int) ([]*RevenuePoint, error) {
	if months <= 0 || months > 24 {
		months = 12
	}

	now := time.Now()
	points := make([]*RevenuePoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
		end := start.AddDate(0, 1, 0)

		point, err := s.buildRevenuePoint(ctx, start, end, "2006-01")
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return points, nil
}

func (s *DashboardService) buildRevenuePoint(ctx context.Context, start, end time.Time, layout string) (*RevenuePoint, error) {
	payments, err := s.paymentRepo.SumAmountBetween(ctx, start, end)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	addons, err := s.addonOrderRepo.SumAmountBetween(ctx, start, end)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return &RevenuePoint{
		Date:        start.Format(layout),
		Payments:    payments,
		AddonOrders: addons,
	}, nil
}
