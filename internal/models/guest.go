// Package models 定义数据模型
package models

import (
	"time"

	"gorm.io/gorm"
)

// Guest 客人模型
// 证件号加密存储，仅在业务层解密
type Guest struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName         string     `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName          string     `gorm:"type:varchar(50);not null" json:"last_name"`
	Email             *string    `gorm:"type:varchar(100)" json:"email,omitempty"`
	Phone             string     `gorm:"type:varchar(20);not null;index" json:"phone"`
	Nationality       *string    `gorm:"type:varchar(50)" json:"nationality,omitempty"`
	Address           *string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	IDTypeID          int64      `gorm:"not null" json:"id_type_id"`
	IDNumberEncrypted string     `gorm:"type:text;not null" json:"-"`
	IDNumberHash      string     `gorm:"type:varchar(64);index;not null" json:"-"`
	IDPhotoKey        *string    `gorm:"type:varchar(255)" json:"id_photo_key,omitempty"`
	Notes             *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	IDType       *GuestIDType  `gorm:"foreignKey:IDTypeID" json:"id_type,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:GuestID" json:"reservations,omitempty"`
}

// TableName 表名
func (Guest) TableName() string {
	return "guests"
}

// FullName 返回客人全名
func (g *Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}

// GuestIDType 证件类型
type GuestIDType struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (GuestIDType) TableName() string {
	return "guest_id_types"
}

// GuestIDTypeCode 预置证件类型编码
const (
	IDTypePassport      = "passport"       // 护照
	IDTypeDriverLicense = "driver_license" // 驾照
	IDTypeNationalID    = "national_id"    // 身份证
	IDTypeOther         = "other"          // 其他
)
