// Package addon 提供附加消费相关的 HTTP Handler
package addon

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	addonService "github.com/dmvillareal/hotel-backoffice/internal/service/addon"
)

// AddonHandler 附加消费处理器
type AddonHandler struct {
	addonService *addonService.AddonService
}

// NewAddonHandler 创建附加消费处理器
func NewAddonHandler(svc *addonService.AddonService) *AddonHandler {
	return &AddonHandler{addonService: svc}
}

// CreateProduct 创建附加商品
// @Summary 创建附加商品
// @Tags 附加消费
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body addonService.CreateProductRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-products [post]
func (h *AddonHandler) CreateProduct(c *gin.Context) {
	var req addonService.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.addonService.CreateProduct(c.Request.Context(), &req)
	handler.MustSucceed(c, err, product)
}

// GetProduct 获取附加商品详情
// @Summary 获取附加商品详情
// @Tags 附加消费
// @Produce json
// @Security Bearer
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-products/{id} [get]
func (h *AddonHandler) GetProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	product, err := h.addonService.GetProduct(c.Request.Context(), id)
	handler.MustSucceed(c, err, product)
}

// ListProducts 获取附加商品列表
// @Summary 获取附加商品列表
// @Tags 附加消费
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param category query string false "分类"
// @Param keyword query string false "名称关键词"
// @Param is_active query bool false "是否上架"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-products [get]
func (h *AddonHandler) ListProducts(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filters["is_active"] = isActive == "true"
	}

	products, total, err := h.addonService.ListProducts(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, products, total, p.Page, p.PageSize)
}

// UpdateProduct 更新附加商品
// @Summary 更新附加商品
// @Tags 附加消费
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "商品ID"
// @Param request body addonService.UpdateProductRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-products/{id} [put]
func (h *AddonHandler) UpdateProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	var req addonService.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.addonService.UpdateProduct(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, product)
}

// DeleteProduct 删除附加商品
// @Summary 删除附加商品
// @Tags 附加消费
// @Produce json
// @Security Bearer
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-products/{id} [delete]
func (h *AddonHandler) DeleteProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "商品")
	if !ok {
		return
	}

	err := h.addonService.DeleteProduct(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// CreateOrder 创建附加消费订单
// @Summary 创建附加消费订单
// @Tags 附加消费
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body addonService.CreateOrderRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-orders [post]
func (h *AddonHandler) CreateOrder(c *gin.Context) {
	operatorID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req addonService.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	order, err := h.addonService.CreateOrder(c.Request.Context(), &req, operatorID)
	handler.MustSucceed(c, err, order)
}

// GetOrder 获取附加消费订单详情
// @Summary 获取附加消费订单详情
// @Tags 附加消费
// @Produce json
// @Security Bearer
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-orders/{id} [get]
func (h *AddonHandler) GetOrder(c *gin.Context) {
	id, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	order, err := h.addonService.GetOrder(c.Request.Context(), id)
	handler.MustSucceed(c, err, order)
}

// ListOrders 获取附加消费订单列表
// @Summary 获取附加消费订单列表
// @Tags 附加消费
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param reservation_id query int false "预订ID"
// @Param order_no query string false "订单号"
// @Success 200 {object} response.Response
// @Router /api/admin/addon-orders [get]
func (h *AddonHandler) ListOrders(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	reservationID, ok := handler.ParseQueryID(c, "reservation_id", "预订")
	if !ok {
		return
	}
	if reservationID != nil {
		filters["reservation_id"] = *reservationID
	}
	if orderNo := c.Query("order_no"); orderNo != "" {
		filters["order_no"] = orderNo
	}

	orders, total, err := h.addonService.ListOrders(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, orders, total, p.Page, p.PageSize)
}

// ListOrdersByReservation 获取预订下的附加消费订单
// @Summary 获取预订下的附加消费订单
// @Tags 附加消费
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/{id}/addon-orders [get]
func (h *AddonHandler) ListOrdersByReservation(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	orders, err := h.addonService.ListOrdersByReservation(c.Request.Context(), id)
	handler.MustSucceed(c, err, orders)
}
