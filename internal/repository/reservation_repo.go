// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

// ReservationRepository 预订仓储
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预订仓储
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create 创建预订
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// GetByID 根据 ID 获取预订
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByIDWithDetails 根据 ID 获取预订（包含关联信息）
func (r *ReservationRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("RoomType").
		Preload("ReservedRooms.Room").
		Preload("Companions").
		Preload("Billing").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByReservationNo 根据预订号获取预订
func (r *ReservationRepository) GetByReservationNo(ctx context.Context, reservationNo string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_no = ?", reservationNo).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByCheckInCode 根据入住码获取预订
func (r *ReservationRepository) GetByCheckInCode(ctx context.Context, code string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("RoomType").
		Preload("ReservedRooms.Room").
		Where("check_in_code = ?", code).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update 更新预订
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// UpdateFields 更新指定字段
func (r *ReservationRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(fields).Error
}

// List 获取预订列表
func (r *ReservationRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reservation{})

	// 应用过滤条件
	if guestID, ok := filters["guest_id"].(int64); ok && guestID > 0 {
		query = query.Where("guest_id = ?", guestID)
	}
	if roomTypeID, ok := filters["room_type_id"].(int64); ok && roomTypeID > 0 {
		query = query.Where("room_type_id = ?", roomTypeID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if statuses, ok := filters["statuses"].([]string); ok && len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if reservationNo, ok := filters["reservation_no"].(string); ok && reservationNo != "" {
		query = query.Where("reservation_no LIKE ?", "%"+reservationNo+"%")
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("check_in_date >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("check_in_date <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Guest").
		Preload("RoomType").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// ListByGuest 获取客人的预订列表
func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID int64, offset, limit int) ([]*models.Reservation, int64, error) {
	filters := map[string]interface{}{
		"guest_id": guestID,
	}
	return r.List(ctx, offset, limit, filters)
}

// ListExpiredPending 获取超过期限仍未确认的预订列表
func (r *ReservationRepository) ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReservationStatusPending).
		Where("created_at < ?", before).
		Limit(limit).
		Find(&reservations).Error
	return reservations, err
}

// ListArrivalsToday 获取今日到店的预订
func (r *ReservationRepository) ListArrivalsToday(ctx context.Context, today time.Time) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	tomorrow := today.Add(24 * time.Hour)
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("RoomType").
		Where("status = ?", models.ReservationStatusConfirmed).
		Where("check_in_date >= ? AND check_in_date < ?", today, tomorrow).
		Order("check_in_date ASC").
		Find(&reservations).Error
	return reservations, err
}

// ListOverdueStays 获取超过离店日期仍未退房的预订
func (r *ReservationRepository) ListOverdueStays(ctx context.Context, now time.Time) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("RoomType").
		Where("status = ?", models.ReservationStatusCheckedIn).
		Where("check_out_date < ?", now).
		Order("check_out_date ASC").
		Find(&reservations).Error
	return reservations, err
}

// CountByStatus 按状态统计预订数量
func (r *ReservationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountGroupByStatus 按状态分组统计预订数量
func (r *ReservationRepository) CountGroupByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Status] = r.Total
	}
	return result, nil
}

// CountDeparturesToday 统计今日应离店的预订数量
// 含当天已办理退房的
func (r *ReservationRepository) CountDeparturesToday(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	tomorrow := today.Add(24 * time.Hour)
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("status IN ?", []string{
			models.ReservationStatusCheckedIn,
			models.ReservationStatusCheckedOut,
		}).
		Where("check_out_date >= ? AND check_out_date < ?", today, tomorrow).
		Count(&count).Error
	return count, err
}

// CountCreatedBetween 统计区间内创建的预订数量
func (r *ReservationRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// CreateReservedRoom 创建房间分配记录
func (r *ReservationRepository) CreateReservedRoom(ctx context.Context, reservedRoom *models.ReservedRoom) error {
	return r.db.WithContext(ctx).Create(reservedRoom).Error
}

// ReleaseRooms 释放预订占用的房间
func (r *ReservationRepository) ReleaseRooms(ctx context.Context, reservationID int64) error {
	return r.db.WithContext(ctx).Model(&models.ReservedRoom{}).
		Where("reservation_id = ?", reservationID).
		Update("released", true).Error
}

// ExistsRoomOverlap 检查房间在时段内是否已被占用
func (r *ReservationRepository) ExistsRoomOverlap(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReservedRoom{}).
		Where("room_id = ?", roomID).
		Where("released = ?", false).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Count(&count).Error
	return count > 0, err
}

// CountOccupiedRooms 统计当前在住房间数
func (r *ReservationRepository) CountOccupiedRooms(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReservedRoom{}).
		Joins("JOIN reservations ON reservations.id = reserved_rooms.reservation_id").
		Where("reservations.status = ?", models.ReservationStatusCheckedIn).
		Where("reserved_rooms.released = ?", false).
		Count(&count).Error
	return count, err
}

// CreateCompanions 批量创建同住人
func (r *ReservationRepository) CreateCompanions(ctx context.Context, companions []*models.Companion) error {
	if len(companions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&companions).Error
}

// ListCompanions 获取预订的同住人列表
func (r *ReservationRepository) ListCompanions(ctx context.Context, reservationID int64) ([]*models.Companion, error) {
	var companions []*models.Companion
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&companions).Error
	return companions, err
}
