package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation 预订模型
type Reservation struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationNo string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"reservation_no"`
	GuestID       int64          `gorm:"index;not null" json:"guest_id"`
	RoomTypeID    int64          `gorm:"index;not null" json:"room_type_id"`
	CheckInDate   time.Time      `gorm:"not null" json:"check_in_date"`
	CheckOutDate  time.Time      `gorm:"not null" json:"check_out_date"`
	GuestCount    int            `gorm:"not null;default:1" json:"guest_count"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CheckInCode   string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"check_in_code"`
	Remark        *string        `gorm:"type:varchar(255)" json:"remark,omitempty"`
	ConfirmedAt   *time.Time     `json:"confirmed_at,omitempty"`
	CheckedInAt   *time.Time     `json:"checked_in_at,omitempty"`
	CheckedOutAt  *time.Time     `json:"checked_out_at,omitempty"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
	CancelReason  *string        `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	ExpiredAt     *time.Time     `json:"expired_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Guest         *Guest         `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	RoomType      *RoomType      `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	ReservedRooms []ReservedRoom `gorm:"foreignKey:ReservationID" json:"reserved_rooms,omitempty"`
	Companions    []Companion    `gorm:"foreignKey:ReservationID" json:"companions,omitempty"`
	Billing       *Billing       `gorm:"foreignKey:ReservationID" json:"billing,omitempty"`
}

// TableName 表名
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationStatus 预订状态
const (
	ReservationStatusPending    = "pending"     // 待确认
	ReservationStatusConfirmed  = "confirmed"   // 已确认
	ReservationStatusCheckedIn  = "checked_in"  // 已入住
	ReservationStatusCheckedOut = "checked_out" // 已退房
	ReservationStatusCancelled  = "cancelled"   // 已取消
	ReservationStatusExpired    = "expired"     // 已过期
)

// Nights 返回入住晚数
func (r *Reservation) Nights() int {
	n := int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}

// IsActive 判断预订是否占用房间
// 取消和过期的预订释放占用
func (r *Reservation) IsActive() bool {
	switch r.Status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCheckedIn:
		return true
	}
	return false
}

// ReservedRoom 预订房间分配
// 入住时段冗余存储，用于事务内的重叠查询
type ReservedRoom struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID int64     `gorm:"index;not null" json:"reservation_id"`
	RoomID        int64     `gorm:"index;not null" json:"room_id"`
	CheckInDate   time.Time `gorm:"not null" json:"check_in_date"`
	CheckOutDate  time.Time `gorm:"not null" json:"check_out_date"`
	Released      bool      `gorm:"not null;default:false" json:"released"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Room        *Room        `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 表名
func (ReservedRoom) TableName() string {
	return "reserved_rooms"
}

// Companion 同住人
type Companion struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID int64     `gorm:"index;not null" json:"reservation_id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Age           *int      `json:"age,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (Companion) TableName() string {
	return "companions"
}
