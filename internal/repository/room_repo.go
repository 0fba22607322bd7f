// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/models"
)

// RoomTypeRepository 房型仓储
type RoomTypeRepository struct {
	db *gorm.DB
}

// NewRoomTypeRepository 创建房型仓储
func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

// Create 创建房型
func (r *RoomTypeRepository) Create(ctx context.Context, roomType *models.RoomType) error {
	return r.db.WithContext(ctx).Create(roomType).Error
}

// GetByID 根据 ID 获取房型
func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*models.RoomType, error) {
	var roomType models.RoomType
	err := r.db.WithContext(ctx).First(&roomType, id).Error
	if err != nil {
		return nil, err
	}
	return &roomType, nil
}

// GetByName 根据名称获取房型
func (r *RoomTypeRepository) GetByName(ctx context.Context, name string) (*models.RoomType, error) {
	var roomType models.RoomType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&roomType).Error
	if err != nil {
		return nil, err
	}
	return &roomType, nil
}

// Update 更新房型
func (r *RoomTypeRepository) Update(ctx context.Context, roomType *models.RoomType) error {
	return r.db.WithContext(ctx).Save(roomType).Error
}

// Delete 删除房型（软删除）
func (r *RoomTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.RoomType{}, id).Error
}

// List 获取房型列表
func (r *RoomTypeRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.RoomType, int64, error) {
	var roomTypes []*models.RoomType
	var total int64

	query := r.db.WithContext(ctx).Model(&models.RoomType{})

	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&roomTypes).Error; err != nil {
		return nil, 0, err
	}

	return roomTypes, total, nil
}

// ExistsByName 检查房型名称是否已存在
func (r *RoomTypeRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RoomType{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CountRooms 统计房型下的房间数量
func (r *RoomTypeRepository) CountRooms(ctx context.Context, roomTypeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_type_id = ?", roomTypeID).
		Count(&count).Error
	return count, err
}

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房间
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDWithDetails 根据 ID 获取房间（包含房型）
func (r *RoomRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("RoomType").
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Update 更新房间
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateStatus 更新房间运营状态
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除房间（软删除）
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}

// List 获取房间列表
func (r *RoomRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Room{})

	// 应用过滤条件
	if roomTypeID, ok := filters["room_type_id"].(int64); ok && roomTypeID > 0 {
		query = query.Where("room_type_id = ?", roomTypeID)
	}
	if floor, ok := filters["floor"].(int); ok && floor > 0 {
		query = query.Where("floor = ?", floor)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if roomNo, ok := filters["room_no"].(string); ok && roomNo != "" {
		query = query.Where("room_no LIKE ?", "%"+roomNo+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("RoomType").
		Order("floor ASC, room_no ASC").
		Offset(offset).Limit(limit).
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ExistsByFloorAndNo 检查楼层房间号是否已存在
func (r *RoomRepository) ExistsByFloorAndNo(ctx context.Context, floor int, roomNo string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("floor = ? AND room_no = ?", floor, roomNo)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// ListAvailableByType 获取指定房型在时段内无预订占用的可用房间
// 运营状态必须为 available，且 reserved_rooms 中无重叠记录
func (r *RoomRepository) ListAvailableByType(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) ([]*models.Room, error) {
	var rooms []*models.Room
	subQuery := r.db.WithContext(ctx).Model(&models.ReservedRoom{}).
		Select("room_id").
		Where("released = ?", false).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)

	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_type_id = ?", roomTypeID).
		Where("status = ?", models.RoomStatusAvailable).
		Where("id NOT IN (?)", subQuery).
		Order("floor ASC, room_no ASC").
		Find(&rooms).Error
	return rooms, err
}

// CountAvailableByType 统计指定房型在时段内的可用房间数
func (r *RoomRepository) CountAvailableByType(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	subQuery := r.db.WithContext(ctx).Model(&models.ReservedRoom{}).
		Select("room_id").
		Where("released = ?", false).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)

	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_type_id = ?", roomTypeID).
		Where("status = ?", models.RoomStatusAvailable).
		Where("id NOT IN (?)", subQuery).
		Count(&count).Error
	return count, err
}

// CountByStatus 按运营状态统计房间数量
func (r *RoomRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountAll 统计房间总数
func (r *RoomRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Count(&count).Error
	return count, err
}
