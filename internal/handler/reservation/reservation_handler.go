// Package reservation 提供预订相关的 HTTP Handler
package reservation

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	reservationService "github.com/dmvillareal/hotel-backoffice/internal/service/reservation"
)

// ReservationHandler 预订处理器
type ReservationHandler struct {
	bookingService     *reservationService.BookingService
	reservationService *reservationService.ReservationService
}

// NewReservationHandler 创建预订处理器
func NewReservationHandler(
	bookingSvc *reservationService.BookingService,
	reservationSvc *reservationService.ReservationService,
) *ReservationHandler {
	return &ReservationHandler{
		bookingService:     bookingSvc,
		reservationService: reservationSvc,
	}
}

// CreateReservation 创建预订
// @Summary 创建预订
// @Tags 预订管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reservationService.CreateBookingRequest true "请求参数"
// @Success 200 {object} response.Response{data=reservationService.BookingInfo}
// @Router /api/admin/reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	operatorID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req reservationService.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req, operatorID)
	handler.MustSucceed(c, err, booking)
}

// GetReservation 获取预订详情
// @Summary 获取预订详情
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// GetReservationByNo 根据预订号获取预订
// @Summary 根据预订号获取预订
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Param reservation_no path string true "预订号"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/no/{reservation_no} [get]
func (h *ReservationHandler) GetReservationByNo(c *gin.Context) {
	reservationNo := c.Param("reservation_no")
	if reservationNo == "" {
		response.BadRequest(c, "预订号不能为空")
		return
	}

	reservation, err := h.reservationService.GetReservationByNo(c.Request.Context(), reservationNo)
	handler.MustSucceed(c, err, reservation)
}

// ListReservations 获取预订列表
// @Summary 获取预订列表
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param guest_id query int false "客人ID"
// @Param room_type_id query int false "房型ID"
// @Param status query string false "状态"
// @Param reservation_no query string false "预订号"
// @Param start_date query string false "入住起始日期"
// @Param end_date query string false "入住截止日期"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	guestID, ok := handler.ParseQueryID(c, "guest_id", "客人")
	if !ok {
		return
	}
	if guestID != nil {
		filters["guest_id"] = *guestID
	}
	roomTypeID, ok := handler.ParseQueryID(c, "room_type_id", "房型")
	if !ok {
		return
	}
	if roomTypeID != nil {
		filters["room_type_id"] = *roomTypeID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if reservationNo := c.Query("reservation_no"); reservationNo != "" {
		filters["reservation_no"] = reservationNo
	}
	startDate, endDate, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}
	if startDate != nil {
		filters["start_date"] = *startDate
	}
	if endDate != nil {
		filters["end_date"] = *endDate
	}

	reservations, total, err := h.reservationService.ListReservations(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, reservations, total, p.Page, p.PageSize)
}

// ListArrivalsToday 获取今日待抵店预订
// @Summary 获取今日待抵店预订
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/arrivals-today [get]
func (h *ReservationHandler) ListArrivalsToday(c *gin.Context) {
	reservations, err := h.reservationService.ListArrivalsToday(c.Request.Context())
	handler.MustSucceed(c, err, reservations)
}

// ListOverdueStays 获取逾期未退房的在住预订
// @Summary 获取逾期未退房的在住预订
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/overdue [get]
func (h *ReservationHandler) ListOverdueStays(c *gin.Context) {
	reservations, err := h.reservationService.ListOverdueStays(c.Request.Context())
	handler.MustSucceed(c, err, reservations)
}

// ConfirmReservation 确认预订
// @Summary 确认预订
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/{id}/confirm [put]
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Confirm(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// CheckIn 办理入住
// @Summary 办理入住
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/{id}/check-in [put]
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.CheckIn(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// CheckInByCode 扫码办理入住
// @Summary 扫码办理入住
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Param code query string true "入住码"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/check-in [put]
func (h *ReservationHandler) CheckInByCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "入住码不能为空")
		return
	}

	reservation, err := h.reservationService.CheckInByCode(c.Request.Context(), code)
	handler.MustSucceed(c, err, reservation)
}

// CheckOut 办理退房
// @Summary 办理退房
// @Tags 预订管理
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/{id}/check-out [put]
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.CheckOut(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// CancelReservation 取消预订
// @Summary 取消预订
// @Tags 预订管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body reservationService.CancelReservationRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/reservations/{id}/cancel [put]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	var req reservationService.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.Cancel(c.Request.Context(), id, req.Reason)
	handler.MustSucceed(c, err, reservation)
}
