package errors

import (
	"fmt"

	"github.com/weiwangfds/ideaboard/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrUnauthorized   ErrorCode = 1002 // 未授权
	ErrNotFound       ErrorCode = 1004 // 资源未找到
	ErrConflict       ErrorCode = 1008 // 资源冲突

	// 笔记相关错误码 (2000-2999)
	ErrContentRequired ErrorCode = 2000 // 笔记内容为空
	ErrNoteNotFound    ErrorCode = 2001 // 笔记未找到（包含归属他人的情况）

	// 认证相关错误码 (3000-3999)
	ErrEmailRequired      ErrorCode = 3000 // 邮箱或密码为空
	ErrEmailAlreadyTaken  ErrorCode = 3001 // 邮箱已被注册
	ErrInvalidCredentials ErrorCode = 3002 // 邮箱或密码错误
	ErrSessionExpired     ErrorCode = 3003 // 会话已过期

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseQuery       ErrorCode = 4001 // 数据库查询错误
	ErrDatabaseTransaction ErrorCode = 4005 // 数据库事务错误
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As链
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// GetAppError 获取应用错误
// 从错误中提取应用程序错误，返回错误实例和是否成功提取的标志
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// 预定义的常用错误
var (
	// 通用错误
	ErrInternalServerError = New(ErrInternalServer, GetErrorMessage(ErrInternalServer))
	ErrInvalidParameters   = New(ErrInvalidParams, GetErrorMessage(ErrInvalidParams))
	ErrUnauthorizedAccess  = New(ErrUnauthorized, GetErrorMessage(ErrUnauthorized))
	ErrResourceNotFound    = New(ErrNotFound, GetErrorMessage(ErrNotFound))

	// 笔记相关错误
	ErrContentRequiredError = New(ErrContentRequired, GetErrorMessage(ErrContentRequired))
	ErrNoteNotFoundError    = New(ErrNoteNotFound, GetErrorMessage(ErrNoteNotFound))

	// 认证相关错误
	ErrEmailRequiredError      = New(ErrEmailRequired, GetErrorMessage(ErrEmailRequired))
	ErrEmailAlreadyTakenError  = New(ErrEmailAlreadyTaken, GetErrorMessage(ErrEmailAlreadyTaken))
	ErrInvalidCredentialsError = New(ErrInvalidCredentials, GetErrorMessage(ErrInvalidCredentials))
	ErrSessionExpiredError     = New(ErrSessionExpired, GetErrorMessage(ErrSessionExpired))
)

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrUnauthorized:   "unauthorized",
	ErrNotFound:       "not_found",
	ErrConflict:       "conflict",

	ErrContentRequired: "content_required",
	ErrNoteNotFound:    "note_not_found",

	ErrEmailRequired:      "email_required",
	ErrEmailAlreadyTaken:  "email_already_taken",
	ErrInvalidCredentials: "invalid_credentials",
	ErrSessionExpired:     "session_expired",

	ErrDatabaseQuery:       "database_query",
	ErrDatabaseTransaction: "database_transaction",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
