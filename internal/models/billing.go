package models

import (
	"time"

	"gorm.io/gorm"
)

// Billing 账单模型
// 每个预订唯一一张账单
type Billing struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	BillingNo     string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"billing_no"`
	ReservationID int64          `gorm:"uniqueIndex;not null" json:"reservation_id"`
	RoomSubtotal  float64        `gorm:"type:decimal(12,2);not null" json:"room_subtotal"`
	AddonSubtotal float64        `gorm:"type:decimal(12,2);not null;default:0" json:"addon_subtotal"`
	TotalAmount   float64        `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidAmount    float64        `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Status        string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	VoidedAt      *time.Time     `json:"voided_at,omitempty"`
	VoidReason    *string        `gorm:"type:varchar(255)" json:"void_reason,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Payments    []Payment    `gorm:"foreignKey:BillingID" json:"payments,omitempty"`
}

// TableName 表名
func (Billing) TableName() string {
	return "billings"
}

// BillingStatus 账单状态
const (
	BillingStatusOpen          = "open"           // 待支付
	BillingStatusPartiallyPaid = "partially_paid" // 部分支付
	BillingStatusSettled       = "settled"        // 已结清
	BillingStatusVoided        = "voided"         // 已作废
)

// Balance 返回应付余额
func (b *Billing) Balance() float64 {
	return b.TotalAmount - b.PaidAmount
}

// Payment 支付记录模型
type Payment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentNo    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"payment_no"`
	BillingID    int64     `gorm:"index;not null" json:"billing_id"`
	Amount       float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	SubMethodID  int64     `gorm:"not null" json:"sub_method_id"`
	ReferenceNo  *string   `gorm:"type:varchar(100)" json:"reference_no,omitempty"`
	ReceivedByID int64     `gorm:"not null" json:"received_by_id"`
	Remark       *string   `gorm:"type:varchar(255)" json:"remark,omitempty"`
	PaidAt       time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Billing    *Billing          `gorm:"foreignKey:BillingID" json:"billing,omitempty"`
	SubMethod  *PaymentSubMethod `gorm:"foreignKey:SubMethodID" json:"sub_method,omitempty"`
	ReceivedBy *User             `gorm:"foreignKey:ReceivedByID" json:"received_by,omitempty"`
}

// TableName 表名
func (Payment) TableName() string {
	return "payments"
}

// PaymentMethod 支付方式
type PaymentMethod struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	SubMethods []PaymentSubMethod `gorm:"foreignKey:MethodID" json:"sub_methods,omitempty"`
}

// TableName 表名
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// PaymentMethodCode 预置支付方式编码
const (
	PaymentMethodCash    = "cash"     // 现金
	PaymentMethodCard    = "card"     // 银行卡
	PaymentMethodEWallet = "e_wallet" // 电子钱包
)

// PaymentSubMethod 支付子方式
type PaymentSubMethod struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MethodID  int64     `gorm:"index;not null" json:"method_id"`
	Code      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Method *PaymentMethod `gorm:"foreignKey:MethodID" json:"method,omitempty"`
}

// TableName 表名
func (PaymentSubMethod) TableName() string {
	return "payment_sub_methods"
}
