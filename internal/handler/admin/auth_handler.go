// Package admin 提供后台管理相关的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dmvillareal/hotel-backoffice/internal/common/handler"
	"github.com/dmvillareal/hotel-backoffice/internal/common/response"
	adminService "github.com/dmvillareal/hotel-backoffice/internal/service/admin"
)

// AuthHandler 员工认证处理器
type AuthHandler struct {
	authService *adminService.AuthService
}

// NewAuthHandler 创建员工认证处理器
func NewAuthHandler(svc *adminService.AuthService) *AuthHandler {
	return &AuthHandler{authService: svc}
}

// refreshTokenRequest 刷新令牌请求
type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login 员工登录
// @Summary 员工登录
// @Tags 员工认证
// @Accept json
// @Produce json
// @Param request body adminService.LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=adminService.LoginResponse}
// @Router /api/admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req adminService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	handler.MustSucceed(c, err, resp)
}

// RefreshToken 刷新令牌
// @Summary 刷新令牌
// @Tags 员工认证
// @Accept json
// @Produce json
// @Param request body refreshTokenRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	handler.MustSucceed(c, err, pair)
}

// GetUserInfo 获取当前登录员工信息
// @Summary 获取当前登录员工信息
// @Tags 员工认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=adminService.UserInfo}
// @Router /api/admin/auth/me [get]
func (h *AuthHandler) GetUserInfo(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	info, err := h.authService.GetUserInfo(c.Request.Context(), userID)
	handler.MustSucceed(c, err, info)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 员工认证
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.ChangePasswordRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/admin/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req adminService.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, nil)
}
