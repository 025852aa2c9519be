package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	authservice "github.com/weiwangfds/ideaboard/internal/service/auth"
)

// SessionCookieName 会话令牌Cookie名称
const SessionCookieName = "ideaboard_session"

// AuthMiddleware 认证中间件
// 从Authorization头或会话Cookie提取令牌，解析为用户后注入请求上下文
type AuthMiddleware struct {
	authService authservice.AuthService
}

// NewAuthMiddleware 创建认证中间件实例
// 参数:
//
//	authService - 认证服务
//
// 返回:
//
//	*AuthMiddleware - 认证中间件
func NewAuthMiddleware(authService authservice.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth 会话校验中间件
// 令牌缺失、无效或过期时以401中断请求
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   apperrors.GetErrorMessage(apperrors.ErrUnauthorized),
			})
			return
		}

		user, err := m.authService.ResolveToken(token)
		if err != nil {
			message := apperrors.GetErrorMessage(apperrors.ErrUnauthorized)
			if appErr, ok := apperrors.GetAppError(err); ok && appErr.Code == apperrors.ErrSessionExpired {
				message = appErr.Message
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   message,
			})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// ExtractToken 从请求中提取会话令牌
// 优先取Authorization头的Bearer令牌，其次取会话Cookie
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}
