// Package guest 提供客人档案相关的 HTTP Handler
package guest

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	guestService "github.com/dmvillareal/hotel-backoffice/internal/service/guest"
	"github.com/dmvillareal/hotel-backoffice/pkg/oss"
)

// GuestHandler 客人档案处理器
type GuestHandler struct {
	guestService *guestService.GuestService
}

// NewGuestHandler 创建客人档案处理器
func NewGuestHandler(guestSvc *guestService.GuestService) *GuestHandler {
	return &GuestHandler{
		guestService: guestSvc,
	}
}

// CreateGuest 登记客人
// @Summary 登记客人
// @Tags 客人档案
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body guestService.CreateGuestRequest true "请求参数"
// @Success 200 {object} response.Response{data=guestService.GuestInfo}
// @Router /api/admin/guests [post]
func (h *GuestHandler) CreateGuest(c *gin.Context) {
	var req guestService.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	guest, err := h.guestService.CreateGuest(c.Request.Context(), &req)
	handler.MustSucceed(c, err, guest)
}

// GetGuest 获取客人详情
// @Summary 获取客人详情
// @Tags 客人档案
// @Produce json
// @Security Bearer
// @Param id path int true "客人ID"
// @Success 200 {object} response.Response{data=guestService.GuestInfo}
// @Router /api/admin/guests/{id} [get]
func (h *GuestHandler) GetGuest(c *gin.Context) {
	id, ok := handler.ParseID(c, "客人")
	if !ok {
		return
	}

	guest, err := h.guestService.GetGuest(c.Request.Context(), id)
	handler.MustSucceed(c, err, guest)
}

// ListGuests 获取客人列表
// @Summary 获取客人列表
// @Tags 客人档案
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "姓名/电话/邮箱关键字"
// @Param id_type_id query int false "证件类型ID"
// @Param nationality query string false "国籍"
// @Success 200 {object} response.Response{data=[]guestService.GuestInfo}
// @Router /api/admin/guests [get]
func (h *GuestHandler) ListGuests(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if phone := c.Query("phone"); phone != "" {
		filters["phone"] = phone
	}
	idTypeID, ok := handler.ParseQueryID(c, "id_type_id", "证件类型")
	if !ok {
		return
	}
	if idTypeID != nil {
		filters["id_type_id"] = *idTypeID
	}
	if nationality := c.Query("nationality"); nationality != "" {
		filters["nationality"] = nationality
	}

	guests, total, err := h.guestService.ListGuests(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, guests, total, p.Page, p.PageSize)
}

// UpdateGuest 更新客人档案
// @Summary 更新客人档案
// @Tags 客人档案
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "客人ID"
// @Param request body guestService.UpdateGuestRequest true "请求参数"
// @Success 200 {object} response.Response{data=guestService.GuestInfo}
// @Router /api/admin/guests/{id} [put]
func (h *GuestHandler) UpdateGuest(c *gin.Context) {
	id, ok := handler.ParseID(c, "客人")
	if !ok {
		return
	}

	var req guestService.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	guest, err := h.guestService.UpdateGuest(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, guest)
}

// DeleteGuest 删除客人档案
// @Summary 删除客人档案
// @Tags 客人档案
// @Produce json
// @Security Bearer
// @Param id path int true "客人ID"
// @Success 200 {object} response.Response
// @Router /api/admin/guests/{id} [delete]
func (h *GuestHandler) DeleteGuest(c *gin.Context) {
	id, ok := handler.ParseID(c, "客人")
	if !ok {
		return
	}

	err := h.guestService.DeleteGuest(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// UploadIDPhoto 上传证件照片
// @Summary 上传证件照片
// @Tags 客人档案
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path int true "客人ID"
// @Param file formData file true "证件照片"
// @Success 200 {object} response.Response
// @Router /api/admin/guests/{id}/id-photo [post]
func (h *GuestHandler) UploadIDPhoto(c *gin.Context) {
	id, ok := handler.ParseID(c, "客人")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择证件照片")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "读取文件失败")
		return
	}
	defer file.Close()

	// 校验会消费文件头，校验后重置读取位置
	if err := oss.ValidateIDPhoto(fileHeader.Filename, file); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		response.BadRequest(c, "读取文件失败")
		return
	}

	url, err := h.guestService.UploadIDPhoto(c.Request.Context(), id, fileHeader.Filename, file)
	handler.MustSucceed(c, err, gin.H{"url": url})
}

// ListIDTypes 获取证件类型列表
// @Summary 获取证件类型列表
// @Tags 客人档案
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/admin/guests/id-types [get]
func (h *GuestHandler) ListIDTypes(c *gin.Context) {
	idTypes, err := h.guestService.ListIDTypes(c.Request.Context())
	handler.MustSucceed(c, err, idTypes)
}
