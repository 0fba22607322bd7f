// Package inventory 提供房型与房间相关的 HTTP Handler
package inventory

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	inventoryService "github.com/dmvillareal/hotel-backoffice/internal/service/inventory"
)

// RoomTypeHandler 房型处理器
type RoomTypeHandler struct {
	roomTypeService *inventoryService.RoomTypeService
}

// NewRoomTypeHandler 创建房型处理器
func NewRoomTypeHandler(roomTypeSvc *inventoryService.RoomTypeService) *RoomTypeHandler {
	return &RoomTypeHandler{
		roomTypeService: roomTypeSvc,
	}
}

// CreateRoomType 创建房型
// @Summary 创建房型
// @Tags 房态管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body inventoryService.CreateRoomTypeRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/room-types [post]
func (h *RoomTypeHandler) CreateRoomType(c *gin.Context) {
	var req inventoryService.CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	roomType, err := h.roomTypeService.CreateRoomType(c.Request.Context(), &req)
	handler.MustSucceed(c, err, roomType)
}

// GetRoomType 获取房型详情
// @Summary 获取房型详情
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Success 200 {object} response.Response
// @Router /api/admin/room-types/{id} [get]
func (h *RoomTypeHandler) GetRoomType(c *gin.Context) {
	id, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	roomType, err := h.roomTypeService.GetRoomType(c.Request.Context(), id)
	handler.MustSucceed(c, err, roomType)
}

// ListRoomTypes 获取房型列表
// @Summary 获取房型列表
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "名称关键字"
// @Success 200 {object} response.Response
// @Router /api/admin/room-types [get]
func (h *RoomTypeHandler) ListRoomTypes(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}

	roomTypes, total, err := h.roomTypeService.ListRoomTypes(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, roomTypes, total, p.Page, p.PageSize)
}

// UpdateRoomType 更新房型
// @Summary 更新房型
// @Tags 房态管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Param request body inventoryService.UpdateRoomTypeRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/room-types/{id} [put]
func (h *RoomTypeHandler) UpdateRoomType(c *gin.Context) {
	id, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	var req inventoryService.UpdateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	roomType, err := h.roomTypeService.UpdateRoomType(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, roomType)
}

// DeleteRoomType 删除房型
// @Summary 删除房型
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Success 200 {object} response.Response
// @Router /api/admin/room-types/{id} [delete]
func (h *RoomTypeHandler) DeleteRoomType(c *gin.Context) {
	id, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	err := h.roomTypeService.DeleteRoomType(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// GetAvailability 查询房型空房情况
// @Summary 查询房型空房情况
// @Tags 房态管理
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Param check_in_date query string true "入住日期 2006-01-02"
// @Param check_out_date query string true "退房日期 2006-01-02"
// @Success 200 {object} response.Response
// @Router /api/admin/room-types/{id}/availability [get]
func (h *RoomTypeHandler) GetAvailability(c *gin.Context) {
	id, ok := handler.ParseID(c, "房型")
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

	availability, err := h.roomTypeService.GetAvailability(c.Request.Context(), id, checkIn, checkOut)
	handler.MustSucceed(c, err, availability)
}
