// Package share 提供笔记公开分享相关的业务逻辑服务
// 通过分享标识对外暴露笔记的只读投影，不做任何身份校验
package share

import (
	"errors"

	"github.com/weiwangfds/ideaboard/internal/database"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	"github.com/weiwangfds/ideaboard/internal/logger"
	"gorm.io/gorm"
)

// ShareService 分享服务接口
type ShareService interface {
	// GetNoteByShareID 通过分享标识获取笔记的公开投影
	// 投影不包含所有者信息；分享标识不存在时返回"笔记未找到"
	// 参数:
	//   shareID - 公开分享标识
	// 返回:
	//   *SharedNote - 笔记公开投影
	//   error - 错误信息
	GetNoteByShareID(shareID string) (*SharedNote, error)
}

// SharedNote 笔记的公开投影
// 刻意不携带所有者字段，避免通过分享链接泄露归属信息
type SharedNote struct {
	ID        string   `json:"id"`         // 笔记对外标识
	Content   string   `json:"content"`    // 笔记内容
	CreatedAt int64    `json:"created_at"` // 创建时间（Unix秒）
	UpdatedAt int64    `json:"updated_at"` // 最后修改时间（Unix秒）
	Tags      []string `json:"tags"`       // 标签文本集合
}

// shareService 分享服务实现
type shareService struct {
	db *gorm.DB
}

// NewShareService 创建分享服务实例
// 参数:
//
//	db - 数据库连接
//
// 返回:
//
//	ShareService - 分享服务接口
func NewShareService(db *gorm.DB) ShareService {
	return &shareService{db: db}
}

// GetNoteByShareID 通过分享标识获取笔记的公开投影
func (s *shareService) GetNoteByShareID(shareID string) (*SharedNote, error) {
	var note database.Note
	if err := s.db.Where("share_id = ?", shareID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFoundError
		}
		logger.Errorf("Failed to get shared note %s: %v", shareID, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	labels := []string{}
	err := s.db.Model(&database.Tag{}).
		Select("tags.label").
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ?", note.ID).
		Order("note_tags.created_at ASC, note_tags.tag_id ASC").
		Pluck("tags.label", &labels).Error
	if err != nil {
		logger.Errorf("Failed to get labels for shared note %s: %v", shareID, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	return &SharedNote{
		ID:        note.NoteID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.Unix(),
		UpdatedAt: note.UpdatedAt.Unix(),
		Tags:      labels,
	}, nil
}
