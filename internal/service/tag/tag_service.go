// Package tag 提供标签解析相关的业务逻辑服务
// 负责把自由文本标签解析为持久化的标签行，以及标签列表查询
package tag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/weiwangfds/ideaboard/internal/database"
	"github.com/weiwangfds/ideaboard/internal/logger"
	"gorm.io/gorm"
)

// TagService 标签服务接口
type TagService interface {
	// ResolveLabels 把一组原始标签文本解析为持久化的标签行
	// 每个文本先做规范化（去首尾空白并转小写），规范化后为空的条目被跳过，
	// 同一请求内规范化结果相同的条目只保留一个引用
	// 参数:
	//   tx - 数据库连接或外层事务
	//   labels - 原始标签文本序列
	// 返回:
	//   []database.Tag - 解析得到的标签行，按输入中首次出现的顺序排列
	//   error - 错误信息
	ResolveLabels(tx *gorm.DB, labels []string) ([]database.Tag, error)

	// ListTags 获取标签列表及各标签的引用计数
	// 参数:
	//   page - 页码（从1开始）
	//   pageSize - 每页数量
	// 返回:
	//   []TagWithCount - 标签列表
	//   int64 - 总数量
	//   error - 错误信息
	ListTags(page, pageSize int) ([]TagWithCount, int64, error)
}

// TagWithCount 标签及其引用计数
type TagWithCount struct {
	ID        string `json:"id"`         // 标签对外标识
	Label     string `json:"label"`      // 规范化标签文本
	NoteCount int64  `json:"note_count"` // 引用该标签的笔记数量
}

// tagService 标签服务实现
type tagService struct {
	db *gorm.DB
}

// NewTagService 创建标签服务实例
// 参数:
//   db - 数据库连接
// 返回:
//   TagService - 标签服务接口实例
func NewTagService(db *gorm.DB) TagService {
	return &tagService{
		db: db,
	}
}

// NormalizeLabel 规范化标签文本：去除首尾空白并转为小写
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// ResolveLabels 把一组原始标签文本解析为持久化的标签行
func (s *tagService) ResolveLabels(tx *gorm.DB, labels []string) ([]database.Tag, error) {
	resolved := make([]database.Tag, 0, len(labels))
	seen := make(map[string]bool, len(labels))

	for _, raw := range labels {
		label := NormalizeLabel(raw)
		if label == "" {
			// 规范化后为空的标签无法被检索，直接跳过
			continue
		}
		if seen[label] {
			continue
		}
		seen[label] = true

		tag, err := s.getOrCreateTag(tx, label)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *tag)
	}

	return resolved, nil
}

// getOrCreateTag 按规范化文本查找标签，不存在时创建
// 并发请求同时创建同一标签时以label列的唯一约束为准：
// 插入因唯一约束冲突失败视为"标签已存在"，重新查询并复用已有行
func (s *tagService) getOrCreateTag(tx *gorm.DB, label string) (*database.Tag, error) {
	var tag database.Tag
	err := tx.Where("label = ?", label).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up tag %q: %w", label, err)
	}

	tag = database.Tag{
		TagID: uuid.New().String(),
		Label: label,
	}
	if err := tx.Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			logger.Debugf("Tag %q created concurrently, re-fetching", label)
			var existing database.Tag
			if err := tx.Where("label = ?", label).First(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to re-fetch tag %q after conflict: %w", label, err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create tag %q: %w", label, err)
	}

	logger.Debugf("Created tag %q (ID: %s)", label, tag.TagID)
	return &tag, nil
}

// isUniqueViolation 判断错误是否为唯一约束冲突
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ListTags 获取标签列表及各标签的引用计数
func (s *tagService) ListTags(page, pageSize int) ([]TagWithCount, int64, error) {
	var total int64
	if err := s.db.Model(&database.Tag{}).Count(&total).Error; err != nil {
		logger.Errorf("Failed to count tags: %v", err)
		return nil, 0, err
	}

	var tags []TagWithCount
	offset := (page - 1) * pageSize
	err := s.db.Model(&database.Tag{}).
		Select("tags.tag_id AS id, tags.label AS label, COUNT(note_tags.note_id) AS note_count").
		Joins("LEFT JOIN note_tags ON note_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.label ASC").
		Offset(offset).Limit(pageSize).
		Scan(&tags).Error
	if err != nil {
		logger.Errorf("Failed to list tags: %v", err)
		return nil, 0, err
	}

	return tags, total, nil
}
