package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	adminService "github.com/dmvillareal/hotel-backoffice/internal/service/admin"
)

// DashboardHandler 运营看板处理器
type DashboardHandler struct {
	dashboardService *adminService.DashboardService
}

// NewDashboardHandler 创建运营看板处理器
func NewDashboardHandler(svc *adminService.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: svc}
}

// GetOverview 获取运营概览
// @Summary 获取运营概览
// @Tags 运营看板
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=adminService.DashboardOverview}
// @Router /api/admin/dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.GetOverview(c.Request.Context())
	handler.MustSucceed(c, err, overview)
}

// GetDailyRevenue 获取每日营收趋势
// @Summary 获取每日营收趋势
// @Tags 运营看板
// @Produce json
// @Security Bearer
// @Param days query int false "统计天数" default(14)
// @Success 200 {object} response.Response
// @Router /api/admin/dashboard/revenue/daily [get]
func (h *DashboardHandler) GetDailyRevenue(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "14"))

	points, err := h.dashboardService.GetDailyRevenue(c.Request.Context(), days)
	handler.MustSucceed(c, err, points)
}

// GetMonthlyRevenue 获取每月营收趋势
// @Summary 获取每月营收趋势
// @Tags 运营看板
// @Produce json
// @Security Bearer
// @Param months query int false "统计月数" default(12)
// @Success 200 {object} response.Response
// @Router /api/admin/dashboard/revenue/monthly [get]
func (h *DashboardHandler) GetMonthlyRevenue(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	points, err := h.dashboardService.GetMonthlyRevenue(c.Request.Context(), months)
	handler.MustSucceed(c, err, points)
}
