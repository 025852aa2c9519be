// Package database 提供数据库迁移和初始化功能
// 包含笔记系统相关表的索引优化
package database

import (
	"github.com/weiwangfds/ideaboard/internal/logger"
	"gorm.io/gorm"
)

// createIndexes 创建复合索引
// 参数: db *gorm.DB - GORM数据库连接实例
// 返回值: error - 创建索引失败时返回错误信息
// 用途: 优化按用户列出笔记、标签筛选和会话解析的查询性能
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// 用户笔记列表查询优化：按所有者查询并按修改时间排序
		"CREATE INDEX IF NOT EXISTS idx_notes_owner_updated ON notes(owner_id, updated_at DESC)",
		// 关联表双向查询优化
		"CREATE INDEX IF NOT EXISTS idx_note_tags_tag ON note_tags(tag_id, note_id)",
		// 会话解析优化：按令牌查询并校验过期时间
		"CREATE INDEX IF NOT EXISTS idx_sessions_token_expires ON sessions(token, expires_at)",
	}

	// 执行所有索引创建语句
	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			logger.Errorf("Failed to create index: %s, error: %v", indexSQL, err)
			return err
		}
	}

	logger.Info("Database indexes created")
	return nil
}
