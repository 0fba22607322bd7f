package models

import (
	"time"
)

// OperationLog 操作日志
type OperationLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"index;not null" json:"user_id"`
	Module     string    `gorm:"type:varchar(50);not null" json:"module"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetType *string   `gorm:"type:varchar(50)" json:"target_type,omitempty"`
	TargetID   *int64    `json:"target_id,omitempty"`
	Detail     JSON      `gorm:"type:jsonb" json:"detail,omitempty"`
	IP         string    `gorm:"type:varchar(45);not null" json:"ip"`
	UserAgent  *string   `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "operation_logs"
}

// SystemConfig 系统配置
type SystemConfig struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Group       string    `gorm:"type:varchar(50);not null;column:group" json:"group"`
	Key         string    `gorm:"type:varchar(100);uniqueIndex;not null;column:key" json:"key"`
	Value       string    `gorm:"type:text;not null;column:value" json:"value"`
	Type        string    `gorm:"type:varchar(20);not null;default:'string'" json:"type"`
	Description *string   `gorm:"type:varchar(255)" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (SystemConfig) TableName() string {
	return "system_configs"
}

// ConfigValueType 配置值类型
const (
	ConfigTypeString  = "string"  // 字符串
	ConfigTypeNumber  = "number"  // 数字
	ConfigTypeBoolean = "boolean" // 布尔
	ConfigTypeJSON    = "json"    // JSON
)

// ConfigKey 预置配置键
const (
	ConfigKeyDownpaymentRate    = "reservation.downpayment_rate"    // 首付比例
	ConfigKeyPendingExpireHours = "reservation.pending_expire_hours" // 待确认过期小时数
)
