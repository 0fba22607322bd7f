package billing

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	billingService "github.com/dmvillareal/hotel-backoffice/internal/service/billing"
)

// PaymentHandler 收款处理器
type PaymentHandler struct {
	paymentService *billingService.PaymentService
}

// NewPaymentHandler 创建收款处理器
func NewPaymentHandler(svc *billingService.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: svc}
}

// RecordPayment 记录收款
// @Summary 记录收款
// @Tags 账单管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body billingService.RecordPaymentRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	operatorID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req billingService.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), &req, operatorID)
	handler.MustSucceed(c, err, payment)
}

// GetPayment 获取收款详情
// @Summary 获取收款详情
// @Tags 账单管理
// @Produce json
// @Security Bearer
// @Param id path int true "收款ID"
// @Success 200 {object} response.Response
// @Router /api/admin/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := handler.ParseID(c, "收款")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	handler.MustSucceed(c, err, payment)
}

// ListPayments 获取收款列表
// @Summary 获取收款列表
// @Tags 账单管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param billing_id query int false "账单ID"
// @Param sub_method_id query int false "支付方式ID"
// @Param payment_no query string false "收款单号"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Router /api/admin/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	billingID, ok := handler.ParseQueryID(c, "billing_id", "账单")
	if !ok {
		return
	}
	if billingID != nil {
		filters["billing_id"] = *billingID
	}
	subMethodID, ok := handler.ParseQueryID(c, "sub_method_id", "支付方式")
	if !ok {
		return
	}
	if subMethodID != nil {
		filters["sub_method_id"] = *subMethodID
	}
	if paymentNo := c.Query("payment_no"); paymentNo != "" {
		filters["payment_no"] = paymentNo
	}
	start, end, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}
	if start != nil {
		filters["start_date"] = *start
	}
	if end != nil {
		filters["end_date"] = *end
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, payments, total, p.Page, p.PageSize)
}

// ListByBilling 获取账单下的收款记录
// @Summary 获取账单下的收款记录
// @Tags 账单管理
// @Produce json
// @Security Bearer
// @Param id path int true "账单ID"
// @Success 200 {object} response.Response
// @Router /api/admin/billings/{id}/payments [get]
func (h *PaymentHandler) ListByBilling(c *gin.Context) {
	id, ok := handler.ParseID(c, "账单")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByBilling(c.Request.Context(), id)
	handler.MustSucceed(c, err, payments)
}

// ListPaymentMethods 获取支付方式列表
// @Summary 获取支付方式列表
// @Tags 账单管理
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/admin/payment-methods [get]
func (h *PaymentHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.paymentService.ListPaymentMethods(c.Request.Context())
	handler.MustSucceed(c, err, methods)
}
