// Package inventory 提供房型与房间管理服务
package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// RoomTypeService 房型服务
type RoomTypeService struct {
	roomTypeRepo *repository.RoomTypeRepository
	roomRepo     *repository.RoomRepository
}

// NewRoomTypeService 创建房型服务
func NewRoomTypeService(roomTypeRepo *repository.RoomTypeRepository, roomRepo *repository.RoomRepository) *RoomTypeService {
	return &RoomTypeService{
		roomTypeRepo: roomTypeRepo,
		roomRepo:     roomRepo,
	}
}

// CreateRoomTypeRequest 创建房型请求
type CreateRoomTypeRequest struct {
	Name        string      `json:"name" binding:"required,max=50"`
	Description *string     `json:"description,omitempty"`
	NightlyRate float64     `json:"nightly_rate" binding:"required,gt=0"`
	Capacity    int         `json:"capacity" binding:"required,min=1"`
	Photos      models.JSON `json:"photos,omitempty"`
}

// UpdateRoomTypeRequest 更新房型请求
type UpdateRoomTypeRequest struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	NightlyRate *float64    `json:"nightly_rate,omitempty" binding:"omitempty,gt=0"`
	Capacity    *int        `json:"capacity,omitempty" binding:"omitempty,min=1"`
	Photos      models.JSON `json:"photos,omitempty"`
}

// CreateRoomType 创建房型
func (s *RoomTypeService) CreateRoomType(ctx context.Context, req *CreateRoomTypeRequest) (*models.RoomType, error) {
	exists, err := s.roomTypeRepo.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrRoomTypeExists
	}

	roomType := &models.RoomType{
		Name:        req.Name,
		Description: req.Description,
		NightlyRate: req.NightlyRate,
		Capacity:    req.Capacity,
		Photos:      req.Photos,
	}
	if err := s.roomTypeRepo.Create(ctx, roomType); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomType, nil
}

// GetRoomType 获取房型详情
func (s *RoomTypeService) GetRoomType(ctx context.Context, id int64) (*models.RoomType, error) {
	roomType, err := s.roomTypeRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomType, nil
}

// ListRoomTypes 获取房型列表
func (s *RoomTypeService) ListRoomTypes(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.RoomType, int64, error) {
	roomTypes, total, err := s.roomTypeRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return roomTypes, total, nil
}

// UpdateRoomType 更新房型
func (s *RoomTypeService) UpdateRoomType(ctx context.Context, id int64, req *UpdateRoomTypeRequest) (*models.RoomType, error) {
	roomType, err := s.roomTypeRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.Name != nil && *req.Name != roomType.Name {
		exists, err := s.roomTypeRepo.ExistsByName(ctx, *req.Name, id)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, errors.ErrRoomTypeExists
		}
		roomType.Name = *req.Name
	}
	if req.Description != nil {
		roomType.Description = req.Description
	}
	if req.NightlyRate != nil {
		roomType.NightlyRate = *req.NightlyRate
	}
	if req.Capacity != nil {
		roomType.Capacity = *req.Capacity
	}
	if req.Photos != nil {
		roomType.Photos = req.Photos
	}

	if err := s.roomTypeRepo.Update(ctx, roomType); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomType, nil
}

// DeleteRoomType 删除房型
// 房型下存在房间时拒绝删除
func (s *RoomTypeService) DeleteRoomType(ctx context.Context, id int64) error {
	if _, err := s.roomTypeRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomTypeNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.roomTypeRepo.CountRooms(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrRoomTypeInUse
	}

	if err := s.roomTypeRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// RoomTypeAvailability 房型可用性
type RoomTypeAvailability struct {
	RoomType       *models.RoomType `json:"room_type"`
	AvailableRooms int64            `json:"available_rooms"`
}

// GetAvailability 查询房型在指定时段的可用房间数
func (s *RoomTypeService) GetAvailability(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (*RoomTypeAvailability, error) {
	if !checkOut.After(checkIn) {
		return nil, errors.ErrStayRangeInvalid
	}

	roomType, err := s.roomTypeRepo.GetByID(ctx, roomTypeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.roomRepo.CountAvailableByType(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return &RoomTypeAvailability{
		RoomType:       roomType,
		AvailableRooms: count,
	}, nil
}
