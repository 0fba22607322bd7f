package inventory

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	inventoryService "github.com/dmvillareal/hotel-backoffice/internal/service/inventory"
)

// RoomHandler 房间处理器
type RoomHandler struct {
	roomService *inventoryService.RoomService
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(roomSvc *inventoryService.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomSvc,
	}
}

// UpdateRoomStatusRequest 更新房间状态请求
type UpdateRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateRoom 创建房间
// @Summary 创建房间
// @Tags 房态管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body inventoryService.CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req inventoryService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), &req)
	handler.MustSucceed(c, err, room)
}

// GetRoom 获取房间详情
// @Summary 获取房间详情
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	handler.MustSucceed(c, err, room)
}

// ListRooms 获取房间列表
// @Summary 获取房间列表
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param room_type_id query int false "房型ID"
// @Param floor query int false "楼层"
// @Param status query string false "状态"
// @Param room_no query string false "房号"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	roomTypeID, ok := handler.ParseQueryID(c, "room_type_id", "房型")
	if !ok {
		return
	}
	if roomTypeID != nil {
		filters["room_type_id"] = *roomTypeID
	}
	if floor := c.Query("floor"); floor != "" {
		filters["floor"] = floor
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if roomNo := c.Query("room_no"); roomNo != "" {
		filters["room_no"] = roomNo
	}

	rooms, total, err := h.roomService.ListRooms(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, rooms, total, p.Page, p.PageSize)
}

// UpdateRoom 更新房间
// @Summary 更新房间
// @Tags 房态管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body inventoryService.UpdateRoomRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req inventoryService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, room)
}

// UpdateRoomStatus 更新房间状态
// @Summary 更新房间状态
// @Tags 房态管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body UpdateRoomStatusRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/{id}/status [put]
func (h *RoomHandler) UpdateRoomStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.roomService.UpdateRoomStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceed(c, err, nil)
}

// DeleteRoom 删除房间
// @Summary 删除房间
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	err := h.roomService.DeleteRoom(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ListAvailableRooms 查询可分配房间
// @Summary 查询可分配房间
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param room_type_id query int true "房型ID"
// @Param check_in_date query string true "入住日期 2006-01-02"
// @Param check_out_date query string true "退房日期 2006-01-02"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/available [get]
func (h *RoomHandler) ListAvailableRooms(c *gin.Context) {
	roomTypeID, ok := handler.ParseRequiredQueryID(c, "room_type_id", "房型")
	if !ok {
		return
	}

	checkIn, err := handler.ParseDate(c.Query("check_in_date"))
	if err != nil {
		response.BadRequest(c, "入住日期格式错误")
		return
	}
	checkOut, err := handler.ParseDate(c.Query("check_out_date"))
	if err != nil {
		response.BadRequest(c, "退房日期格式错误")
		return
	}

	rooms, err := h.roomService.ListAvailableRooms(c.Request.Context(), roomTypeID, checkIn, checkOut)
	handler.MustSucceed(c, err, rooms)
}
