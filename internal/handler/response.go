// Package handler 提供笔记、分享与认证相关的HTTP处理器
// 所有接口使用统一的响应信封：成功时携带data字段，失败时携带error字段
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	"github.com/weiwangfds/ideaboard/internal/logger"
)

// APIResponse 统一API响应格式
type APIResponse struct {
	Success bool        `json:"success"`         // 请求是否成功
	Data    interface{} `json:"data,omitempty"`  // 响应数据
	Error   string      `json:"error,omitempty"` // 错误信息
}

// respondOK 返回成功响应
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// respondError 根据业务错误码映射HTTP状态并返回失败响应
// 未识别的错误按500处理，内部细节只入日志不出响应
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		logger.Errorf("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   apperrors.GetErrorMessage(apperrors.ErrInternalServer),
		})
		return
	}

	status := statusForCode(appErr.Code)
	if status == http.StatusInternalServerError {
		logger.Errorf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		// 服务器内部错误不向客户端暴露原始信息
		c.JSON(status, APIResponse{
			Success: false,
			Error:   apperrors.GetErrorMessage(apperrors.ErrInternalServer),
		})
		return
	}

	c.JSON(status, APIResponse{
		Success: false,
		Error:   appErr.Message,
	})
}

// statusForCode 业务错误码到HTTP状态码的映射
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrInvalidParams, apperrors.ErrContentRequired, apperrors.ErrEmailRequired:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized, apperrors.ErrInvalidCredentials, apperrors.ErrSessionExpired:
		return http.StatusUnauthorized
	case apperrors.ErrNotFound, apperrors.ErrNoteNotFound:
		return http.StatusNotFound
	case apperrors.ErrConflict, apperrors.ErrEmailAlreadyTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
