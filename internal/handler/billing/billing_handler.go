// Package billing 提供账单与收款相关的 HTTP Handler
package billing

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	billingService "github.com/dmvillareal/hotel-backoffice/internal/service/billing"
)

// BillingHandler 账单处理器
type BillingHandler struct {
	billingService *billingService.BillingService
}

// NewBillingHandler 创建账单处理器
func NewBillingHandler(svc *billingService.BillingService) *BillingHandler {
	return &BillingHandler{billingService: svc}
}

// GetBilling 获取账单详情
// @Summary 获取账单详情
// @Tags 账单管理
// @Produce json
// @Security Bearer
// @Param id path int true "账单ID"
// @Success 200 {object} response.Response
// @Router /api/admin/billings/{id} [get]
func (h *BillingHandler) GetBilling(c *gin.Context) {
	id, ok := handler.ParseID(c, "账单")
	if !ok {
		return
	}

	billing, err := h.billingService.GetBilling(c.Request.Context(), id)
	handler.MustSucceed(c, err, billing)
}

// GetBillingByReservation 根据预订获取账单
// @Summary 根据预订获取账单
// @Tags 账单管理
// @Produce json
// @Security Bearer
// @Param reservation_id query int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/admin/billings/by-reservation [get]
func (h *BillingHandler) GetBillingByReservation(c *gin.Context) {
	reservationID, ok := handler.ParseRequiredQueryID(c, "reservation_id", "预订")
	if !ok {
		return
	}

	billing, err := h.billingService.GetBillingByReservation(c.Request.Context(), reservationID)
	handler.MustSucceed(c, err, billing)
}

// ListBillings 获取账单列表
// @Summary 获取账单列表
// @Tags 账单管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param reservation_id query int false "预订ID"
// @Param status query string false "状态"
// @Param billing_no query string false "账单号"
// @Success 200 {object} response.Response
// @Router /api/admin/billings [get]
func (h *BillingHandler) ListBillings(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	reservationID, ok := handler.ParseQueryID(c, "reservation_id", "预订")
	if !ok {
		return
	}
	if reservationID != nil {
		filters["reservation_id"] = *reservationID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if billingNo := c.Query("billing_no"); billingNo != "" {
		filters["billing_no"] = billingNo
	}

	billings, total, err := h.billingService.ListBillings(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, billings, total, p.Page, p.PageSize)
}

// VoidBilling 作废账单
// @Summary 作废账单
// @Tags 账单管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "账单ID"
// @Param request body billingService.VoidBillingRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/billings/{id}/void [put]
func (h *BillingHandler) VoidBilling(c *gin.Context) {
	id, ok := handler.ParseID(c, "账单")
	if !ok {
		return
	}

	var req billingService.VoidBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	billing, err := h.billingService.VoidBilling(c.Request.Context(), id, req.Reason)
	handler.MustSucceed(c, err, billing)
}
