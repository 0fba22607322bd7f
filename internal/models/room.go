package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType 房型模型
type RoomType struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	NightlyRate float64        `gorm:"type:decimal(10,2);not null" json:"nightly_rate"`
	Capacity    int            `gorm:"not null;default:2" json:"capacity"`
	Photos      JSON           `gorm:"type:jsonb" json:"photos,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Rooms []Room `gorm:"foreignKey:RoomTypeID" json:"rooms,omitempty"`
}

// TableName 表名
func (RoomType) TableName() string {
	return "room_types"
}

// Room 房间模型
// Status 仅表示运营可用性，预订占用由 reserved_rooms 的日期重叠判断
type Room struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomNo     string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_rooms_floor_no" json:"room_no"`
	Floor      int            `gorm:"not null;uniqueIndex:idx_rooms_floor_no" json:"floor"`
	RoomTypeID int64          `gorm:"index;not null" json:"room_type_id"`
	Status     string         `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Notes      *string        `gorm:"type:varchar(255)" json:"notes,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomStatus 房间运营状态
const (
	RoomStatusAvailable    = "available"      // 可用
	RoomStatusMaintenance  = "maintenance"    // 维护中
	RoomStatusOutOfService = "out_of_service" // 停用
)

// ValidRoomStatus 判断房间状态是否合法
func ValidRoomStatus(status string) bool {
	switch status {
	case RoomStatusAvailable, RoomStatusMaintenance, RoomStatusOutOfService:
		return true
	}
	return false
}
