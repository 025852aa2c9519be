package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	"github.com/weiwangfds/ideaboard/internal/middleware"
	"github.com/weiwangfds/ideaboard/internal/service/auth"
)

// AuthHandler 认证处理器
// 提供注册、登录、登出与当前用户查询接口
type AuthHandler struct {
	authService auth.AuthService
}

// NewAuthHandler 创建认证处理器实例
// 参数:
//
//	authService - 认证服务接口
//
// 返回:
//
//	*AuthHandler - 认证处理器实例
func NewAuthHandler(authService auth.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register 注册新用户
// @Summary 用户注册
// @Description 使用邮箱和密码注册新用户，邮箱全局唯一
// @Tags 认证管理
// @Accept json
// @Produce json
// @Param user body auth.RegisterRequest true "注册请求"
// @Success 200 {object} APIResponse{data=auth.UserInfo} "注册成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 409 {object} APIResponse "邮箱已被占用"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   apperrors.GetErrorMessage(apperrors.ErrInvalidParams),
		})
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验邮箱和密码，成功后签发会话令牌并写入会话Cookie
// @Tags 认证管理
// @Accept json
// @Produce json
// @Param credentials body auth.LoginRequest true "登录请求"
// @Success 200 {object} APIResponse{data=auth.LoginResult} "登录成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 401 {object} APIResponse "邮箱或密码错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   apperrors.GetErrorMessage(apperrors.ErrInvalidParams),
		})
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	// 同时写入Cookie，便于浏览器客户端直接携带会话
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetCookie(middleware.SessionCookieName, result.Token, maxAge, "/", "", false, true)

	respondOK(c, result)
}

// Logout 用户登出
// @Summary 用户登出
// @Description 销毁当前会话并清除会话Cookie
// @Tags 认证管理
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "登出成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)

	if err := h.authService.Logout(token); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	respondOK(c, gin.H{"logged_out": true})
}

// Me 获取当前用户
// @Summary 获取当前用户信息
// @Description 返回当前会话对应的用户信息
// @Tags 认证管理
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=auth.UserInfo} "获取成功"
// @Failure 401 {object} APIResponse "未授权"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, APIResponse{
			Success: false,
			Error:   apperrors.GetErrorMessage(apperrors.ErrUnauthorized),
		})
		return
	}

	respondOK(c, user)
}
