package database

import (
	"time"
)

// User 用户模型
// 注册时创建，邮箱全局唯一，密码以bcrypt哈希存储
// 删除用户时级联删除其全部笔记和会话
type User struct {
	ID           uint      `gorm:"primarykey" json:"-"`                        // 主键ID，自增
	UserID       string    `gorm:"not null;uniqueIndex;size:36" json:"id"`     // 用户对外标识，UUID
	Email        string    `gorm:"not null;uniqueIndex;size:255" json:"email"` // 邮箱，全局唯一
	Name         string    `gorm:"size:100" json:"name"`                       // 显示名称，可选
	PasswordHash string    `gorm:"not null;size:255" json:"-"`                 // bcrypt密码哈希，不参与序列化
	CreatedAt    time.Time `json:"created_at"`                                 // 注册时间

	// 关联关系
	Notes    []Note    `gorm:"foreignKey:OwnerID;references:UserID;constraint:OnDelete:CASCADE" json:"-"` // 一对多关联笔记
	Sessions []Session `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`  // 一对多关联会话
}

// TableName 指定User模型对应的数据库表名
func (User) TableName() string {
	return "users"
}

// Session 会话模型
// 登录时签发的不透明令牌，服务端持久化，登出即废止
type Session struct {
	ID        uint      `gorm:"primarykey" json:"-"`                   // 主键ID，自增
	Token     string    `gorm:"not null;uniqueIndex;size:36" json:"-"` // 会话令牌，UUID
	UserID    string    `gorm:"not null;index;size:36" json:"-"`       // 所属用户标识，外键
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`            // 过期时间
	CreatedAt time.Time `json:"created_at"`                            // 签发时间
}

// TableName 指定Session模型对应的数据库表名
func (Session) TableName() string {
	return "sessions"
}
