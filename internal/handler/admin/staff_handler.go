package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	adminService "github.com/dmvillareal/hotel-backoffice/internal/service/admin"
)

// StaffHandler 员工账号管理处理器
type StaffHandler struct {
	staffService *adminService.StaffService
}

// NewStaffHandler 创建员工账号管理处理器
func NewStaffHandler(svc *adminService.StaffService) *StaffHandler {
	return &StaffHandler{staffService: svc}
}

// updateStaffStatusRequest 更新员工状态请求
type updateStaffStatusRequest struct {
	Status *int8 `json:"status" binding:"required"`
}

// resetPasswordRequest 重置密码请求
type resetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6,max=32"`
}

// CreateStaff 创建员工账号
// @Summary 创建员工账号
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateStaffRequest true "请求参数"
// @Success 200 {object} response.Response{data=adminService.UserInfo}
// @Router /api/admin/staff [post]
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req adminService.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), &req)
	handler.MustSucceed(c, err, staff)
}

// GetStaff 获取员工详情
// @Summary 获取员工详情
// @Tags 员工管理
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Success 200 {object} response.Response{data=adminService.UserInfo}
// @Router /api/admin/staff/{id} [get]
func (h *StaffHandler) GetStaff(c *gin.Context) {
	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	staff, err := h.staffService.GetStaff(c.Request.Context(), id)
	handler.MustSucceed(c, err, staff)
}

// ListStaff 获取员工列表
// @Summary 获取员工列表
// @Tags 员工管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "用户名或姓名关键词"
// @Param role query string false "角色"
// @Param status query int false "状态"
// @Success 200 {object} response.Response
// @Router /api/admin/staff [get]
func (h *StaffHandler) ListStaff(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if role := c.Query("role"); role != "" {
		filters["role"] = role
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	staff, total, err := h.staffService.ListStaff(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, staff, total, p.Page, p.PageSize)
}

// UpdateStaff 更新员工信息
// @Summary 更新员工信息
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Param request body adminService.UpdateStaffRequest true "请求参数"
// @Success 200 {object} response.Response{data=adminService.UserInfo}
// @Router /api/admin/staff/{id} [put]
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	var req adminService.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, staff)
}

// UpdateStaffStatus 启用或停用员工账号
// @Summary 启用或停用员工账号
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Param request body updateStaffStatusRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/staff/{id}/status [put]
func (h *StaffHandler) UpdateStaffStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	var req updateStaffStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.staffService.UpdateStaffStatus(c.Request.Context(), id, *req.Status)
	handler.MustSucceed(c, err, nil)
}

// ResetPassword 重置员工密码
// @Summary 重置员工密码
// @Tags 员工管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Param request body resetPasswordRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/staff/{id}/reset-password [put]
func (h *StaffHandler) ResetPassword(c *gin.Context) {
	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.staffService.ResetPassword(c.Request.Context(), id, req.NewPassword)
	handler.MustSucceed(c, err, nil)
}

// DeleteStaff 删除员工账号
// @Summary 删除员工账号
// @Tags 员工管理
// @Produce json
// @Security Bearer
// @Param id path int true "员工ID"
// @Success 200 {object} response.Response
// @Router /api/admin/staff/{id} [delete]
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	operatorID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	id, ok := handler.ParseID(c, "员工")
	if !ok {
		return
	}

	err := h.staffService.DeleteStaff(c.Request.Context(), id, operatorID)
	handler.MustSucceed(c, err, nil)
}
