package models

import (
	"time"

	"gorm.io/gorm"
)

// AddonProduct 附加商品模型
type AddonProduct struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Category  string         `gorm:"type:varchar(30);not null;index" json:"category"`
	Price     float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 表名
func (AddonProduct) TableName() string {
	return "addon_products"
}

// AddonCategory 附加商品分类
const (
	AddonCategoryFood     = "food"     // 餐饮
	AddonCategoryBeverage = "beverage" // 饮品
	AddonCategoryService  = "service"  // 服务
	AddonCategoryOther    = "other"    // 其他
)

// AddonOrder 附加消费单模型
// 金额在同一事务内同步到账单
type AddonOrder struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo       string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	ReservationID int64          `gorm:"index;not null" json:"reservation_id"`
	BillingID     int64          `gorm:"index;not null" json:"billing_id"`
	TotalAmount   float64        `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Remark        *string        `gorm:"type:varchar(255)" json:"remark,omitempty"`
	CreatedByID   int64          `gorm:"not null" json:"created_by_id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Reservation *Reservation     `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Billing     *Billing         `gorm:"foreignKey:BillingID" json:"billing,omitempty"`
	Items       []AddonOrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedBy   *User            `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName 表名
func (AddonOrder) TableName() string {
	return "addon_orders"
}

// AddonOrderItem 附加消费明细
// 单价为下单时快照
type AddonOrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"index;not null" json:"order_id"`
	ProductID int64     `gorm:"not null" json:"product_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Subtotal  float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Product *AddonProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 表名
func (AddonOrderItem) TableName() string {
	return "addon_order_items"
}
