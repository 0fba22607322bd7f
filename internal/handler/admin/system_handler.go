package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/errors"
	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	"github.com/dmvillareal/hotel-backoffice/internal/repository"
	adminService "github.com/dmvillareal/hotel-backoffice/internal/service/admin"
)

// SystemHandler 系统配置与操作日志处理器
type SystemHandler struct {
	configService    *adminService.SystemConfigService
	operationLogRepo *repository.OperationLogRepository
}

// NewSystemHandler 创建系统配置与操作日志处理器
func NewSystemHandler(
	configService *adminService.SystemConfigService,
	operationLogRepo *repository.OperationLogRepository,
) *SystemHandler {
	return &SystemHandler{
		configService:    configService,
		operationLogRepo: operationLogRepo,
	}
}

// GetConfig 查询配置项
// @Summary 查询配置项
// @Tags 系统管理
// @Produce json
// @Security Bearer
// @Param key path string true "配置键"
// @Success 200 {object} response.Response
// @Router /api/admin/configs/{key} [get]
func (h *SystemHandler) GetConfig(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, "配置键不能为空")
		return
	}

	cfg, err := h.configService.GetConfig(c.Request.Context(), key)
	handler.MustSucceed(c, err, cfg)
}

// ListConfigs 按分组查询配置
// @Summary 按分组查询配置
// @Tags 系统管理
// @Produce json
// @Security Bearer
// @Param group query string false "配置分组"
// @Success 200 {object} response.Response
// @Router /api/admin/configs [get]
func (h *SystemHandler) ListConfigs(c *gin.Context) {
	group := c.Query("group")

	configs, err := h.configService.ListConfigsByGroup(c.Request.Context(), group)
	handler.MustSucceed(c, err, configs)
}

// UpdateConfig 更新配置项
// @Summary 更新配置项
// @Tags 系统管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param key path string true "配置键"
// @Param request body adminService.UpdateConfigRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/configs/{key} [put]
func (h *SystemHandler) UpdateConfig(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, "配置键不能为空")
		return
	}

	var req adminService.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	cfg, err := h.configService.UpdateConfig(c.Request.Context(), key, req.Value)
	handler.MustSucceed(c, err, cfg)
}

// ListOperationLogs 查询操作日志
// @Summary 查询操作日志
// @Tags 系统管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param user_id query int false "操作人ID"
// @Param module query string false "模块"
// @Param action query string false "动作"
// @Param start_date query string false "起始日期"
// @Param end_date query string false "截止日期"
// @Success 200 {object} response.Response
// @Router /api/admin/operation-logs [get]
func (h *SystemHandler) ListOperationLogs(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	userID, ok := handler.ParseQueryID(c, "user_id", "操作人")
	if !ok {
		return
	}
	if userID != nil {
		filters["user_id"] = *userID
	}
	if module := c.Query("module"); module != "" {
		filters["module"] = module
	}
	if action := c.Query("action"); action != "" {
		filters["action"] = action
	}
	startDate, endDate, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}
	if startDate != nil {
		filters["start_time"] = *startDate
	}
	if endDate != nil {
		filters["end_time"] = endDate.AddDate(0, 0, 1)
	}

	logs, total, err := h.operationLogRepo.List(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	if err != nil {
		handler.HandleError(c, errors.ErrDatabaseError.WithError(err))
		return
	}
	response.SuccessPage(c, logs, total, p.Page, p.PageSize)
}
