package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// RoomService 房间服务
type RoomService struct {
	roomRepo        *repository.RoomRepository
	roomTypeRepo    *repository.RoomTypeRepository
	reservationRepo *repository.ReservationRepository
}

// NewRoomService 创建房间服务
func NewRoomService(
	roomRepo *repository.RoomRepository,
	roomTypeRepo *repository.RoomTypeRepository,
	reservationRepo *repository.ReservationRepository,
) *RoomService {
	return &RoomService{
		roomRepo:        roomRepo,
		roomTypeRepo:    roomTypeRepo,
		reservationRepo: reservationRepo,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNo     string  `json:"room_no" binding:"required,max=20"`
	Floor      int     `json:"floor" binding:"required,min=1"`
	RoomTypeID int64   `json:"room_type_id" binding:"required"`
	Notes      *string `json:"notes,omitempty"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	RoomNo     *string `json:"room_no,omitempty"`
	Floor      *int    `json:"floor,omitempty" binding:"omitempty,min=1"`
	RoomTypeID *int64  `json:"room_type_id,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// CreateRoom 创建房间
func (s *RoomService) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*models.Room, error) {
	if _, err := s.roomTypeRepo.GetByID(ctx, req.RoomTypeID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	exists, err := s.roomRepo.ExistsByFloorAndNo(ctx, req.Floor, req.RoomNo, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrRoomNumberExists
	}

	room := &models.Room{
		RoomNo:     req.RoomNo,
		Floor:      req.Floor,
		RoomTypeID: req.RoomTypeID,
		Status:     models.RoomStatusAvailable,
		Notes:      req.Notes,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// GetRoom 获取房间详情
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.roomRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// ListRooms 获取房间列表
func (s *RoomService) ListRooms(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	rooms, total, err := s.roomRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, total, nil
}

// UpdateRoom 更新房间
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, req *UpdateRoomRequest) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	floor := room.Floor
	roomNo := room.RoomNo
	if req.Floor != nil {
		floor = *req.Floor
	}
	if req.RoomNo != nil {
		roomNo = *req.RoomNo
	}
	if floor != room.Floor || roomNo != room.RoomNo {
		exists, err := s.roomRepo.ExistsByFloorAndNo(ctx, floor, roomNo, id)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, errors.ErrRoomNumberExists
		}
		room.Floor = floor
		room.RoomNo = roomNo
	}
	if req.RoomTypeID != nil && *req.RoomTypeID != room.RoomTypeID {
		if _, err := s.roomTypeRepo.GetByID(ctx, *req.RoomTypeID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrRoomTypeNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		room.RoomTypeID = *req.RoomTypeID
	}
	if req.Notes != nil {
		room.Notes = req.Notes
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// UpdateRoomStatus 更新房间运营状态
// 仅限 available / maintenance / out_of_service，不表示预订占用
func (s *RoomService) UpdateRoomStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidRoomStatus(status) {
		return errors.ErrRoomStatusInvalid
	}
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.roomRepo.UpdateStatus(ctx, id, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// DeleteRoom 删除房间
// 存在未释放的预订占用时拒绝删除
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	// 未来任意时段仍被占用的房间不允许删除
	occupied, err := s.reservationRepo.ExistsRoomOverlap(ctx, id, time.Now(), time.Now().AddDate(10, 0, 0))
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if occupied {
		return errors.ErrRoomOccupied
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListAvailableRooms 查询房型在时段内的可用房间
func (s *RoomService) ListAvailableRooms(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) ([]*models.Room, error) {
	if !checkOut.After(checkIn) {
		return nil, errors.ErrStayRangeInvalid
	}
	rooms, err := s.roomRepo.ListAvailableByType(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, nil
}
