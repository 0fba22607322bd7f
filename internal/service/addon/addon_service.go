// Package addon 提供附加消费服务
package addon

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
	"github.com/dmvillareal/hotel-backoffice/internal/common/utils"
	"github.com/dmvillareal/hotel-backoffice/internal/models"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
)

// AddonService 附加消费服务
// 下单与账单金额同步在同一事务内完成
type AddonService struct {
	db              *gorm.DB
	productRepo     *repository.AddonProductRepository
	orderRepo       *repository.AddonOrderRepository
	reservationRepo *repository.ReservationRepository
	billingRepo     *repository.BillingRepository
}

// NewAddonService 创建附加消费服务
func NewAddonService(
	db *gorm.DB,
	productRepo *repository.AddonProductRepository,
	orderRepo *repository.AddonOrderRepository,
	reservationRepo *repository.ReservationRepository,
	billingRepo *repository.BillingRepository,
) *AddonService {
	return &AddonService{
		db:              db,
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		reservationRepo: reservationRepo,
		billingRepo:     billingRepo,
	}
}

// CreateProductRequest 创建附加商品请求
type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Category string  `json:"category" binding:"required,oneof=food beverage service other"`
	Price    float64 `json:"price" binding:"required,gt=0"`
}

// UpdateProductRequest 更新附加商品请求
type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Category *string  `json:"category,omitempty" binding:"omitempty,oneof=food beverage service other"`
	Price    *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	IsActive *bool    `json:"is_active,omitempty"`
}

// CreateProduct 创建附加商品
func (s *AddonService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.AddonProduct, error) {
	product := &models.AddonProduct{
		Name:     strings.TrimSpace(req.Name),
		Category: req.Category,
		Price:    req.Price,
		IsActive: true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return product, nil
}

// GetProduct 查询附加商品
func (s *AddonService) GetProduct(ctx context.Context, id int64) (*models.AddonProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAddonProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return product, nil
}

// ListProducts 分页查询附加商品
func (s *AddonService) ListProducts(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.AddonProduct, int64, error) {
	products, total, err := s.productRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return products, total, nil
}

// UpdateProduct 更新附加商品
func (s *AddonService) UpdateProduct(ctx context.Context, id int64, req *UpdateProductRequest) (*models.AddonProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAddonProductNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return product, nil
}

// DeleteProduct 删除附加商品
// 软删除，历史消费单明细不受影响
func (s *AddonService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrAddonProductNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// OrderItemRequest 消费明细请求
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建附加消费单请求
type CreateOrderRequest struct {
	ReservationID int64              `json:"reservation_id" binding:"required"`
	Items         []OrderItemRequest `json:"items" binding:"required"`
	Remark        *string            `json:"remark,omitempty" binding:"omitempty,max=255"`
}

// CreateOrder 创建附加消费单
// 预订必须已有账单，金额同步到账单后账单回到未结清状态
func (s *AddonService) CreateOrder(ctx context.Context, req *CreateOrderRequest, operatorID int64) (*models.AddonOrder, error) {
	if len(req.Items) == 0 {
		return nil, errors.ErrAddonOrderEmpty
	}

	reservation, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !reservation.IsActive() {
		return nil, errors.ErrReservationStatusError
	}

	// 单价快照在事务外读取，商品下架不影响已建单
	items := make([]models.AddonOrderItem, 0, len(req.Items))
	total := 0.0
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, errors.ErrAddonQuantityInvalid
		}
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrAddonProductNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if !product.IsActive {
			return nil, errors.ErrAddonProductOffShelf
		}

		subtotal := round2(product.Price * float64(item.Quantity))
		items = append(items, models.AddonOrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		total = round2(total + subtotal)
	}

	var order models.AddonOrder

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var billing models.Billing
		if txErr := tx.Where("reservation_id = ?", req.ReservationID).First(&billing).Error; txErr != nil {
			if txErr == gorm.ErrRecordNotFound {
				return errors.ErrBillingNotFound
			}
			return errors.ErrDatabaseError.WithError(txErr)
		}
		if billing.Status == models.BillingStatusVoided {
			return errors.ErrBillingVoided
		}

		order = models.AddonOrder{
			OrderNo:       utils.GenerateOrderNo("A"),
			ReservationID: req.ReservationID,
			BillingID:     billing.ID,
			TotalAmount:   total,
			Remark:        req.Remark,
			CreatedByID:   operatorID,
			Items:         items,
		}
		if txErr := tx.Create(&order).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		addonSubtotal := round2(billing.AddonSubtotal + total)
		totalAmount := round2(billing.RoomSubtotal + addonSubtotal)
		status := models.BillingStatusOpen
		if billing.PaidAmount >= totalAmount {
			status = models.BillingStatusSettled
		} else if billing.PaidAmount > 0 {
			status = models.BillingStatusPartiallyPaid
		}
		if txErr := tx.Model(&models.Billing{}).Where("id = ?", billing.ID).
			Updates(map[string]interface{}{
				"addon_subtotal": addonSubtotal,
				"total_amount":   totalAmount,
				"status":         status,
			}).Error; txErr != nil {
			return errors.ErrDatabaseError.WithError(txErr)
		}

		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("附加消费单已创建",
		zap.String("order_no", order.OrderNo),
		zap.Float64("amount", order.TotalAmount))
	return &order, nil
}

// GetOrder 查询附加消费单详情
func (s *AddonService) GetOrder(ctx context.Context, id int64) (*models.AddonOrder, error) {
	order, err := s.orderRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAddonOrderNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return order, nil
}

// ListOrdersByReservation 查询预订下的附加消费单
func (s *AddonService) ListOrdersByReservation(ctx context.Context, reservationID int64) ([]*models.AddonOrder, error) {
	orders, err := s.orderRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return orders, nil
}

// ListOrders 分页查询附加消费单
func (s *AddonService) ListOrders(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.AddonOrder, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return orders, total, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
