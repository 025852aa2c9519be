// Package auth 提供用户注册、登录与会话管理相关的业务逻辑服务
// 会话采用不透明令牌，服务端持久化并校验有效期
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/weiwangfds/ideaboard/config"
	"github.com/weiwangfds/ideaboard/internal/database"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	"github.com/weiwangfds/ideaboard/internal/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 认证服务接口
type AuthService interface {
	// Register 注册新用户
	// 邮箱全局唯一，冲突时返回"邮箱已被占用"
	// 参数:
	//   req - 注册请求
	// 返回:
	//   *UserInfo - 用户信息
	//   error - 错误信息
	Register(req *RegisterRequest) (*UserInfo, error)

	// Login 校验凭据并创建会话
	// 凭据无效时统一返回"邮箱或密码错误"，不区分用户是否存在
	// 参数:
	//   req - 登录请求
	// 返回:
	//   *LoginResult - 会话令牌与用户信息
	//   error - 错误信息
	Login(req *LoginRequest) (*LoginResult, error)

	// Logout 销毁会话
	// 令牌不存在时静默成功
	// 参数:
	//   token - 会话令牌
	// 返回:
	//   error - 错误信息
	Logout(token string) error

	// ResolveToken 解析会话令牌为用户
	// 令牌无效返回未授权，令牌过期返回会话过期并清理会话行
	// 参数:
	//   token - 会话令牌
	// 返回:
	//   *UserInfo - 用户信息
	//   error - 错误信息
	ResolveToken(token string) (*UserInfo, error)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`    // 邮箱地址
	Password string `json:"password" binding:"required"` // 明文密码
	Name     string `json:"name"`                        // 显示名称，可选
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // 邮箱地址
	Password string `json:"password" binding:"required"` // 明文密码
}

// UserInfo 用户公开信息
type UserInfo struct {
	ID        string `json:"id"`         // 用户对外标识
	Email     string `json:"email"`      // 邮箱地址
	Name      string `json:"name"`       // 显示名称
	CreatedAt int64  `json:"created_at"` // 注册时间（Unix秒）
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string    `json:"token"`      // 会话令牌
	ExpiresAt time.Time `json:"expires_at"` // 会话过期时间
	User      *UserInfo `json:"user"`       // 用户信息
}

// authService 认证服务实现
type authService struct {
	db  *gorm.DB
	cfg config.AuthConfig
}

// NewAuthService 创建认证服务实例
// 参数:
//
//	db - 数据库连接
//	cfg - 认证配置
//
// 返回:
//
//	AuthService - 认证服务接口
func NewAuthService(db *gorm.DB, cfg config.AuthConfig) AuthService {
	return &authService{db: db, cfg: cfg}
}

// Register 注册新用户
func (s *authService) Register(req *RegisterRequest) (*UserInfo, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperrors.ErrEmailRequiredError
	}
	if req.Password == "" {
		return nil, apperrors.ErrInvalidParameters
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, apperrors.GetErrorMessage(apperrors.ErrInternalServer), err)
	}

	user := &database.User{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrEmailAlreadyTakenError
		}
		logger.Errorf("Failed to create user: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	logger.Infof("User registered: %s", user.UserID)
	return toUserInfo(user), nil
}

// Login 校验凭据并创建会话
func (s *authService) Login(req *LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user database.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentialsError
		}
		logger.Errorf("Failed to query user by email: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentialsError
	}

	session := &database.Session{
		Token:     uuid.New().String(),
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.SessionTTL) * time.Second),
	}
	if err := s.db.Create(session).Error; err != nil {
		logger.Errorf("Failed to create session for user %s: %v", user.UserID, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	logger.Infof("User logged in: %s", user.UserID)
	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserInfo(&user),
	}, nil
}

// Logout 销毁会话
func (s *authService) Logout(token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.Where("token = ?", token).Delete(&database.Session{}).Error; err != nil {
		logger.Errorf("Failed to delete session: %v", err)
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}
	return nil
}

// ResolveToken 解析会话令牌为用户
func (s *authService) ResolveToken(token string) (*UserInfo, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorizedAccess
	}

	var session database.Session
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorizedAccess
		}
		logger.Errorf("Failed to query session: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	if time.Now().After(session.ExpiresAt) {
		// 过期会话直接清理，失败只记录不影响响应
		if err := s.db.Delete(&session).Error; err != nil {
			logger.Warnf("Failed to remove expired session: %v", err)
		}
		return nil, apperrors.ErrSessionExpiredError
	}

	var user database.User
	if err := s.db.Where("user_id = ?", session.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorizedAccess
		}
		logger.Errorf("Failed to query session user: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	return toUserInfo(&user), nil
}

// isUniqueViolation 判断错误是否为唯一约束冲突
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// toUserInfo 组装用户公开信息
func toUserInfo(user *database.User) *UserInfo {
	return &UserInfo{
		ID:        user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Unix(),
	}
}
